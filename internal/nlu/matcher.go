// Package nlu 实现了基于规则的意图识别：模式匹配打分与阈值分类。
package nlu

import (
	"regexp"
	"strings"
	"unicode"

	"ecom-support-go/internal/model"
)

// 打分权重：整句触发短语命中记 2.0 分，单个触发词命中记 0.5 分。
// 同一意图的多条触发短语得分累加，命中多个线索的输入得分更高；
// 触发词按意图聚合成集合，被多条短语共享的词只计一次分，
// 避免 "order" 这类公共词把无关意图的分数抬高。
const (
	phraseWeight = 2.0
	wordWeight   = 0.5
)

type rule struct {
	tag     string
	phrases []*regexp.Regexp // 带词边界的整句匹配
	words   map[string]struct{}
}

// Matcher 对单条输入计算每个意图的原始匹配分。
// 构造后只读，无副作用，可并发调用。
type Matcher struct {
	rules []rule
}

// NewMatcher 从意图配置构建匹配器，触发短语在这里统一预编译。
func NewMatcher(cfg *model.IntentConfig) *Matcher {
	m := &Matcher{}
	for _, intent := range cfg.Intents {
		r := rule{tag: intent.Tag, words: make(map[string]struct{})}
		for _, p := range intent.Patterns {
			phrase := strings.ToLower(strings.TrimSpace(p))
			if phrase == "" {
				continue
			}
			r.phrases = append(r.phrases, regexp.MustCompile(`\b`+regexp.QuoteMeta(phrase)+`\b`))
			for _, w := range Words(phrase) {
				r.words[w] = struct{}{}
			}
		}
		m.rules = append(m.rules, r)
	}
	return m
}

// Match 返回每个意图标签的原始匹配分。
// 输入应当已经过 Normalize 处理；无任何命中时所有意图得分为 0。
func (m *Matcher) Match(normalized string) map[string]float64 {
	tokens := make(map[string]struct{})
	for _, w := range Words(normalized) {
		tokens[w] = struct{}{}
	}

	scores := make(map[string]float64, len(m.rules))
	for _, r := range m.rules {
		var score float64
		for _, p := range r.phrases {
			if p.MatchString(normalized) {
				score += phraseWeight
			}
		}
		for w := range r.words {
			if _, ok := tokens[w]; ok {
				score += wordWeight
			}
		}
		scores[r.tag] = score
	}
	return scores
}

// Normalize 对用户输入做分类前的归一化：小写并去除首尾空白。
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Words 把文本按非字母数字字符切分为词元。
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
