package nlu

import (
	"encoding/json"
	"fmt"
	"os"

	"ecom-support-go/internal/model"
)

// LoadIntents 从 JSON 文件加载意图配置。
// 配置在启动时加载一次，进程生命周期内不可变。
func LoadIntents(path string) (*model.IntentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取意图配置文件失败: %w", err)
	}
	var cfg model.IntentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析意图配置文件失败: %w", err)
	}
	if len(cfg.Intents) == 0 {
		return nil, fmt.Errorf("意图配置文件 %s 中没有任何意图", path)
	}
	return &cfg, nil
}
