package retriever

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-support-go/internal/model"
)

func testCorpus() []model.FAQEntry {
	return []model.FAQEntry{
		{Question: "How long does shipping take?", Answer: "Standard shipping takes 3-5 business days. Express shipping takes 1-2 business days."},
		{Question: "What is your return policy?", Answer: "You can return any item within 30 days of delivery for a full refund."},
		{Question: "What payment methods do you accept?", Answer: "We accept credit cards, debit cards and PayPal."},
		{Question: "Do you ship internationally?", Answer: "Yes, we ship to over 50 countries worldwide."},
	}
}

func TestRetrieveExactQuestion(t *testing.T) {
	r := New(testCorpus(), 3, 0.5)

	matches := r.Retrieve("How long does shipping take?", 3)
	require.NotEmpty(t, matches)
	assert.Equal(t, "How long does shipping take?", matches[0].Question)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestRetrieveScoresNonIncreasing(t *testing.T) {
	r := New(testCorpus(), 4, 0.0)

	matches := r.Retrieve("do you ship internationally with what payment methods", 4)
	require.GreaterOrEqual(t, len(matches), 2)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestRetrieveRespectsTopK(t *testing.T) {
	r := New(testCorpus(), 3, 0.0)

	matches := r.Retrieve("what do you take", 2)
	assert.LessOrEqual(t, len(matches), 2)
}

func TestRetrieveFiltersBelowMinSimilarity(t *testing.T) {
	r := New(testCorpus(), 3, 0.5)

	// 只有弱相关词的查询不应越过相似度下限
	matches := r.Retrieve("take", 3)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, 0.5)
	}
}

func TestRetrieveNoVocabularyOverlap(t *testing.T) {
	r := New(testCorpus(), 3, 0.5)

	assert.Empty(t, r.Retrieve("asdkjhasdkjh", 3))
}

func TestRetrieveDeterministic(t *testing.T) {
	r := New(testCorpus(), 3, 0.3)

	first := r.Retrieve("shipping take", 3)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Retrieve("shipping take", 3))
	}
}

func TestReloadSwapsCorpus(t *testing.T) {
	r := New(testCorpus(), 3, 0.5)
	require.Equal(t, 4, r.Size())

	r.Reload([]model.FAQEntry{
		{Question: "Is there a warranty on electronics?", Answer: "All electronics come with a one-year manufacturer warranty."},
	})
	assert.Equal(t, 1, r.Size())

	matches := r.Retrieve("Is there a warranty on electronics?", 3)
	require.Len(t, matches, 1)
	assert.Equal(t, "All electronics come with a one-year manufacturer warranty.", matches[0].Answer)

	// 旧语料不再命中
	assert.Empty(t, r.Retrieve("How long does shipping take?", 3))
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.json")
	data := `{
  "faqs": [
    {"question": "How long does shipping take?", "answer": "Standard shipping takes 3-5 business days."}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	entries, err := LoadCorpus(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "How long does shipping take?", entries[0].Question)
}

func TestLoadCorpusEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"faqs": []}`), 0o644))

	_, err := LoadCorpus(path)
	assert.Error(t, err)
}

func TestRetrieveDefaultTopK(t *testing.T) {
	r := New(testCorpus(), 2, 0.0)

	matches := r.Retrieve("what do you ship", 0)
	assert.LessOrEqual(t, len(matches), 2)
}
