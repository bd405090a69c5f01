package nlu

import (
	"regexp"
	"strings"

	"ecom-support-go/internal/model"
)

// scoreNorm 是原始匹配分到置信度的归一化常数：
// confidence = min(score/scoreNorm, 1)。取 3.0 使单条完整触发短语
// 命中（2.0 分）即可越过默认阈值 0.6。
const scoreNorm = 3.0

// 订单号提取：优先匹配 "order [id] [is|:|#] XXX" 形式的上下文引用，
// 退化为独立出现的 ORD 开头编号。
var (
	orderIDCtxRe   = regexp.MustCompile(`(?i)\border\s*(?:id)?\s*(?:is|:|#)?\s*#?([a-z]{0,4}\d{2,}[a-z0-9]*)`)
	orderIDAloneRe = regexp.MustCompile(`(?i)\b(ord\d{2,})\b`)
)

// Classifier 把原始匹配分转换为分类决策。
// 无持久状态，可对相互独立的输入并发调用。
type Classifier struct {
	matcher   *Matcher
	order     []string // 意图的声明顺序，同分时先声明者优先
	threshold float64
}

// NewClassifier 创建分类器。threshold 是 unknown 回退的置信度阈值。
func NewClassifier(cfg *model.IntentConfig, threshold float64) *Classifier {
	order := make([]string, 0, len(cfg.Intents))
	for _, it := range cfg.Intents {
		order = append(order, it.Tag)
	}
	return &Classifier{
		matcher:   NewMatcher(cfg),
		order:     order,
		threshold: threshold,
	}
}

// Classify 对一条用户输入做意图分类。
// 相同输入总是得到相同的 (意图, 置信度, 实体)；所有意图都低于阈值时
// 返回 unknown，置信度为计算出的最高值。
func (c *Classifier) Classify(utterance string) model.ClassifyResult {
	normalized := Normalize(utterance)
	scores := c.matcher.Match(normalized)

	best := ""
	bestConf := 0.0
	for _, tag := range c.order {
		conf := scores[tag] / scoreNorm
		if conf > 1.0 {
			conf = 1.0
		}
		// 严格大于：同分时保留先声明的意图，保证平局裁决稳定
		if best == "" || conf > bestConf {
			best = tag
			bestConf = conf
		}
	}

	result := model.ClassifyResult{
		Intent:     best,
		Confidence: bestConf,
		Entities:   map[string]string{},
	}
	if bestConf < c.threshold || bestConf == 0 {
		result.Intent = model.IntentUnknown
		return result
	}

	// 仅订单相关意图需要提取订单号实体；找不到时实体映射为空，
	// 由对话路由负责向用户追问
	if best == model.IntentTrackOrder || best == model.IntentCancelItem {
		if id := ExtractOrderID(utterance); id != "" {
			result.Entities[model.EntityOrderID] = id
		}
	}
	return result
}

// Threshold 返回配置的置信度阈值。
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// IntentCount 返回声明的意图数量。
func (c *Classifier) IntentCount() int {
	return len(c.order)
}

// ExtractOrderID 从原始输入中提取订单号，统一为大写；未找到时返回空串。
func ExtractOrderID(text string) string {
	if m := orderIDCtxRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := orderIDAloneRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}
