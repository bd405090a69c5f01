package tfidf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("How long does shipping take?")

	// 停用词被过滤，剩余一元词之后追加相邻二元词组
	assert.Equal(t, []string{"long", "shipping", "take", "long shipping", "shipping take"}, tokens)
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("what is the"))
}

func TestTransformIdenticalTextIsUnitSimilar(t *testing.T) {
	docs := []string{
		"How long does shipping take?",
		"What is your return policy?",
		"Do you ship internationally?",
	}
	v := Fit(docs)

	for _, doc := range docs {
		a := v.Transform(doc)
		require.NotEmpty(t, a)
		assert.InDelta(t, 1.0, Cosine(a, a), 1e-9)
	}
}

func TestTransformUnknownTokens(t *testing.T) {
	v := Fit([]string{"shipping takes three days"})

	vec := v.Transform("zzzz qqqq")
	assert.Empty(t, vec)
	assert.Zero(t, Cosine(vec, v.Transform("shipping takes three days")))
}

func TestCosineRanksRelatedDocHigher(t *testing.T) {
	docs := []string{
		"How long does shipping take?",
		"What payment methods do you accept?",
	}
	v := Fit(docs)

	query := v.Transform("shipping take")
	shipping := Cosine(query, v.Transform(docs[0]))
	payment := Cosine(query, v.Transform(docs[1]))

	assert.Greater(t, shipping, payment)
	assert.Zero(t, payment)
}

func TestTransformIsNormalized(t *testing.T) {
	v := Fit([]string{"track order status", "cancel order now"})

	vec := v.Transform("track order")
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestTopIndices(t *testing.T) {
	order := TopIndices([]float64{0.2, 0.9, 0.5})
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestTopIndicesStableOnTies(t *testing.T) {
	order := TopIndices([]float64{0.5, 0.9, 0.5})
	assert.Equal(t, []int{1, 0, 2}, order)
}

func TestVocabSize(t *testing.T) {
	v := Fit([]string{"shipping time"})
	// shipping, time, "shipping time"
	assert.Equal(t, 3, v.VocabSize())
}
