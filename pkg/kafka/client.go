// Package kafka 提供了与 Kafka 消息队列交互的功能。
// 对话服务把每轮交互事件写入 Kafka，分析端消费后做聚合统计。
package kafka

import (
	"context"
	"encoding/json"

	"ecom-support-go/internal/config"
	"ecom-support-go/pkg/analytics"
	"ecom-support-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

// EventSink 定义了能够接收交互事件的组件。
// 消费者通过它与具体的聚合实现解耦。
type EventSink interface {
	Record(ev analytics.InteractionEvent)
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
// brokers 为空时视为未启用，后续 Produce 调用直接跳过。
func InitProducer(cfg config.KafkaConfig) {
	if cfg.Brokers == "" {
		log.Info("Kafka 未配置，交互事件上报已禁用")
		return
	}
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// Enabled 报告生产者是否可用。
func Enabled() bool {
	return producer != nil
}

// Producer 满足对话服务的事件发布接口。
type Producer struct{}

// PublishInteraction 发送一条交互事件到 Kafka。
func (Producer) PublishInteraction(ctx context.Context, ev analytics.InteractionEvent) error {
	if producer == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.SessionID),
		Value: payload,
	})
}

// StartConsumer 启动一个 Kafka 消费者，把交互事件喂给聚合端。
func StartConsumer(cfg config.KafkaConfig, sink EventSink) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "ecom-support-analytics",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break
		}

		var ev analytics.InteractionEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Errorf("无法解析交互事件: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		sink.Record(ev)

		if err := r.CommitMessages(context.Background(), m); err != nil {
			log.Errorf("提交消息失败: %v", err)
		}
	}
}
