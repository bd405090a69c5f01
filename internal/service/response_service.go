package service

import (
	"strings"

	"ecom-support-go/internal/model"
)

// ResponseService 根据意图选择响应模板并做占位符替换。
// 模板中的 {key} 会被实体映射中的同名值替换。
// 同一意图配置多条模板时按会话轮次轮换，选择是确定性的：
// 相同的 (意图, 实体, 轮次) 总是产出相同的文本。
type ResponseService struct {
	templates map[string][]string
}

// NewResponseService 从意图配置构建响应模板表。
func NewResponseService(cfg *model.IntentConfig) *ResponseService {
	templates := make(map[string][]string, len(cfg.Intents))
	for _, intent := range cfg.Intents {
		if len(intent.Responses) > 0 {
			templates[intent.Tag] = intent.Responses
		}
	}
	return &ResponseService{templates: templates}
}

// Generate 为意图生成响应文本；该意图没有模板时返回空串，
// 由调用方决定回退文案。
func (s *ResponseService) Generate(intent string, entities map[string]string, turn int) string {
	list, ok := s.templates[intent]
	if !ok || len(list) == 0 {
		return ""
	}
	text := list[turn%len(list)]
	for key, value := range entities {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}
	return text
}

// Has 报告某个意图是否配置了响应模板。
func (s *ResponseService) Has(intent string) bool {
	return len(s.templates[intent]) > 0
}
