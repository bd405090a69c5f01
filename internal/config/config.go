// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Bot       BotConfig       `mapstructure:"bot"`
	Retriever RetrieverConfig `mapstructure:"retriever"`
	Order     OrderConfig     `mapstructure:"order"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// DatabaseConfig 存储所有存储后端的配置。
// driver 决定订单仓储的实现：memory（进程内，从种子文件加载）或 mysql。
type DatabaseConfig struct {
	Driver string      `mapstructure:"driver"`
	MySQL  MySQLConfig `mapstructure:"mysql"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig 存储会话相关的配置。
// store 决定会话仓储的实现：memory 或 redis。
type SessionConfig struct {
	Store      string `mapstructure:"store"`
	HistoryMax int    `mapstructure:"history_max"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

// BotConfig 存储意图分类与对话相关的配置。
type BotConfig struct {
	IntentsFile         string  `mapstructure:"intents_file"`
	FAQFile             string  `mapstructure:"faq_file"`
	OrdersFile          string  `mapstructure:"orders_file"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	MaxMessageLen       int     `mapstructure:"max_message_len"`
}

// RetrieverConfig 存储 FAQ 检索相关的配置。
type RetrieverConfig struct {
	TopK            int     `mapstructure:"top_k"`
	MinSimilarity   float64 `mapstructure:"min_similarity"`
	CacheTTLMinutes int     `mapstructure:"cache_ttl_minutes"`
}

// OrderConfig 存储订单业务规则相关的配置。
type OrderConfig struct {
	CancelWindowHours int `mapstructure:"cancel_window_hours"`
}

// KafkaConfig 存储 Kafka 相关的配置，brokers 为空表示禁用事件上报。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}

	applyDefaults(&Conf)
}

// applyDefaults 为未配置的关键参数填充默认值。
func applyDefaults(c *Config) {
	if c.Session.HistoryMax <= 0 {
		c.Session.HistoryMax = 20
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = 30
	}
	if c.Bot.ConfidenceThreshold <= 0 {
		c.Bot.ConfidenceThreshold = 0.6
	}
	if c.Bot.MaxMessageLen <= 0 {
		c.Bot.MaxMessageLen = 512
	}
	if c.Retriever.TopK <= 0 {
		c.Retriever.TopK = 3
	}
	if c.Retriever.MinSimilarity <= 0 {
		c.Retriever.MinSimilarity = 0.5
	}
	if c.Order.CancelWindowHours <= 0 {
		c.Order.CancelWindowHours = 24
	}
}
