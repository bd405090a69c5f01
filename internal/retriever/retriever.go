// Package retriever 实现了基于 TF-IDF 的 FAQ 检索。
// 语料在启动时一次性建立索引，查询阶段只读；
// 重建索引采用复制后原子替换，进行中的读取不会看到半成品。
package retriever

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"ecom-support-go/internal/model"
	"ecom-support-go/pkg/tfidf"
)

// index 是一份不可变的语料索引快照。
type index struct {
	entries    []model.FAQEntry
	vectorizer *tfidf.Vectorizer
	vectors    []tfidf.Vector
}

// Retriever 对固定的问答语料做 top-K 相似度检索。
type Retriever struct {
	idx           atomic.Pointer[index]
	topK          int
	minSimilarity float64
}

// New 构建检索器并为语料建立索引。
// topK 为默认返回条数，minSimilarity 以下的条目会被过滤。
func New(entries []model.FAQEntry, topK int, minSimilarity float64) *Retriever {
	r := &Retriever{topK: topK, minSimilarity: minSimilarity}
	r.idx.Store(buildIndex(entries))
	return r
}

// buildIndex 对问句文本建立 TF-IDF 索引。
func buildIndex(entries []model.FAQEntry) *index {
	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}
	v := tfidf.Fit(questions)
	vectors := make([]tfidf.Vector, len(entries))
	for i, q := range questions {
		vectors[i] = v.Transform(q)
	}
	return &index{entries: entries, vectorizer: v, vectors: vectors}
}

// Retrieve 返回与查询最相关的至多 topK 条问答，按相似度降序排列，
// 同分时按语料插入顺序。topK <= 0 时使用默认值。
// 没有条目越过相似度阈值时返回空切片，表示"没有相关答案"。
func (r *Retriever) Retrieve(query string, topK int) []model.FAQMatch {
	if topK <= 0 {
		topK = r.topK
	}
	idx := r.idx.Load()

	queryVec := idx.vectorizer.Transform(query)
	if len(queryVec) == 0 {
		return nil
	}

	scores := make([]float64, len(idx.vectors))
	for i, v := range idx.vectors {
		scores[i] = tfidf.Cosine(queryVec, v)
	}

	matches := make([]model.FAQMatch, 0, topK)
	for _, i := range tfidf.TopIndices(scores) {
		if scores[i] < r.minSimilarity {
			break
		}
		matches = append(matches, model.FAQMatch{
			Question: idx.entries[i].Question,
			Answer:   idx.entries[i].Answer,
			Score:    scores[i],
		})
		if len(matches) == topK {
			break
		}
	}
	return matches
}

// Reload 用新语料重建索引并原子替换，旧索引继续服务进行中的查询。
func (r *Retriever) Reload(entries []model.FAQEntry) {
	r.idx.Store(buildIndex(entries))
}

// Size 返回当前索引的语料条数。
func (r *Retriever) Size() int {
	return len(r.idx.Load().entries)
}

// LoadCorpus 从 JSON 文件加载 FAQ 语料。
func LoadCorpus(path string) ([]model.FAQEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 FAQ 语料文件失败: %w", err)
	}
	var f model.FAQFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析 FAQ 语料文件失败: %w", err)
	}
	if len(f.FAQs) == 0 {
		return nil, fmt.Errorf("FAQ 语料文件 %s 中没有任何条目", path)
	}
	return f.FAQs, nil
}
