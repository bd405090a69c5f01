package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecom-support-go/internal/model"
)

func newTestClassifier() *Classifier {
	return NewClassifier(testIntentConfig(), 0.6)
}

func TestClassifyGreeting(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("Hello!")
	assert.Equal(t, model.IntentGreeting, result.Intent)
	assert.GreaterOrEqual(t, result.Confidence, 0.6)
	assert.LessOrEqual(t, result.Confidence, 1.0)
}

func TestClassifyTrackOrderWithEntity(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("Track my order ORD001")
	assert.Equal(t, model.IntentTrackOrder, result.Intent)
	assert.Equal(t, "ORD001", result.Entities[model.EntityOrderID])
}

func TestClassifyCancelBeatsTrack(t *testing.T) {
	c := newTestClassifier()

	// "order" 两个意图都有，但取消短语把 cancel_item 分数拉开
	result := c.Classify("Cancel order ORD002")
	assert.Equal(t, model.IntentCancelItem, result.Intent)
	assert.Equal(t, "ORD002", result.Entities[model.EntityOrderID])
}

func TestClassifyFAQ(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("How long does shipping take?")
	assert.Equal(t, model.IntentFAQ, result.Intent)
	assert.GreaterOrEqual(t, result.Confidence, 0.6)
}

func TestClassifyUnknownBelowThreshold(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("asdkjhasdkjh")
	assert.Equal(t, model.IntentUnknown, result.Intent)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.Entities)
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier()

	first := c.Classify("I need to track my order")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify("I need to track my order"))
	}
	assert.Equal(t, model.IntentTrackOrder, first.Intent)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := newTestClassifier()

	lower := c.Classify("cancel my order")
	upper := c.Classify("CANCEL MY ORDER")
	assert.Equal(t, lower.Intent, upper.Intent)
	assert.InDelta(t, lower.Confidence, upper.Confidence, 1e-9)
}

func TestClassifyMissingEntityLeavesMapEmpty(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("I want to cancel my order")
	assert.Equal(t, model.IntentCancelItem, result.Intent)
	assert.Empty(t, result.Entities)
}

func TestExtractOrderID(t *testing.T) {
	cases := map[string]string{
		"Track my order ORD001":    "ORD001",
		"my order id is ORD123":    "ORD123",
		"order #ORD42":             "ORD42",
		"cancel ord002 please":     "ORD002",
		"I ordered an item":        "",
		"no identifiers here":      "",
		"Order ID: ORD777 thanks!": "ORD777",
	}
	for text, want := range cases {
		assert.Equal(t, want, ExtractOrderID(text), "input %q", text)
	}
}

func TestThresholdAndIntentCount(t *testing.T) {
	c := newTestClassifier()
	assert.InDelta(t, 0.6, c.Threshold(), 1e-9)
	assert.Equal(t, 4, c.IntentCount())
}
