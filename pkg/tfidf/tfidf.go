// Package tfidf 实现了一个面向固定小语料的 TF-IDF 向量化器。
// FAQ 检索用它在进程内完成问句向量化与余弦相似度打分，
// 语料一次构建、查询阶段只读。
package tfidf

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// 常见英文停用词，分词时会被过滤掉。
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "do": {}, "does": {}, "did": {}, "can": {}, "could": {},
	"i": {}, "me": {}, "my": {}, "we": {}, "our": {}, "you": {}, "your": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"what": {}, "which": {}, "who": {}, "how": {}, "when": {}, "where": {},
	"of": {}, "to": {}, "in": {}, "on": {}, "for": {}, "with": {}, "at": {},
	"by": {}, "from": {}, "and": {}, "or": {}, "not": {}, "no": {},
	"if": {}, "will": {}, "would": {}, "there": {}, "have": {}, "has": {},
}

// Tokenize 将文本切分为小写词元：去标点、过滤停用词，
// 并在一元词之外追加相邻二元词组以保留短语信息。
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if _, skip := stopWords[w]; skip {
			continue
		}
		words = append(words, w)
	}

	tokens := make([]string, 0, len(words)*2)
	tokens = append(tokens, words...)
	for i := 0; i+1 < len(words); i++ {
		tokens = append(tokens, words[i]+" "+words[i+1])
	}
	return tokens
}

// Vector 是稀疏的 L2 归一化词权向量，key 为词表下标。
type Vector map[int]float64

// Vectorizer 持有固定语料的词表和 IDF 权重。
// 构建完成后只读，可被任意多个 goroutine 并发使用。
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// Fit 在给定文档集上构建词表与 IDF 权重。
func Fit(docs []string) *Vectorizer {
	vocab := make(map[string]int)
	df := make([]int, 0)

	for _, doc := range docs {
		seen := make(map[int]struct{})
		for _, tok := range Tokenize(doc) {
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
				df = append(df, 0)
			}
			if _, dup := seen[idx]; !dup {
				seen[idx] = struct{}{}
				df[idx]++
			}
		}
	}

	// 平滑 IDF：idf = ln((1+N)/(1+df)) + 1
	n := float64(len(docs))
	idf := make([]float64, len(df))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	return &Vectorizer{vocab: vocab, idf: idf}
}

// Transform 将一段文本映射为 L2 归一化的 TF-IDF 向量。
// 不在词表中的词元被忽略；全部未命中时返回空向量。
func (v *Vectorizer) Transform(text string) Vector {
	tf := make(Vector)
	for _, tok := range Tokenize(text) {
		if idx, ok := v.vocab[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return tf
	}

	var norm float64
	for idx := range tf {
		tf[idx] *= v.idf[idx]
		norm += tf[idx] * tf[idx]
	}
	norm = math.Sqrt(norm)
	for idx := range tf {
		tf[idx] /= norm
	}
	return tf
}

// VocabSize 返回词表大小。
func (v *Vectorizer) VocabSize() int {
	return len(v.vocab)
}

// Cosine 计算两个归一化向量的余弦相似度。
// 任一向量为空时相似度为 0。
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for idx, wa := range a {
		if wb, ok := b[idx]; ok {
			dot += wa * wb
		}
	}
	return dot
}

// TopIndices 返回按相似度降序排列的向量下标，相同分值保持原有顺序。
func TopIndices(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})
	return idx
}
