package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecom-support-go/internal/model"
)

func testTemplates() *model.IntentConfig {
	return &model.IntentConfig{
		Intents: []model.IntentPattern{
			{
				Tag: model.IntentGreeting,
				Responses: []string{
					"Hello! Welcome to our store. How can I help you today?",
					"Hi there! How can I assist you?",
				},
			},
			{
				Tag:       model.IntentTrackOrder,
				Responses: []string{"Your order {order_id} is on its way."},
			},
			{Tag: model.IntentCancelItem},
		},
	}
}

func TestGenerateRotatesByTurn(t *testing.T) {
	s := NewResponseService(testTemplates())

	first := s.Generate(model.IntentGreeting, nil, 0)
	second := s.Generate(model.IntentGreeting, nil, 1)
	third := s.Generate(model.IntentGreeting, nil, 2)

	assert.Equal(t, "Hello! Welcome to our store. How can I help you today?", first)
	assert.Equal(t, "Hi there! How can I assist you?", second)
	// 轮询回绕到第一条
	assert.Equal(t, first, third)
}

func TestGenerateFillsEntities(t *testing.T) {
	s := NewResponseService(testTemplates())

	text := s.Generate(model.IntentTrackOrder, map[string]string{model.EntityOrderID: "ORD001"}, 0)
	assert.Equal(t, "Your order ORD001 is on its way.", text)
}

func TestGenerateUnknownOrEmptyIntent(t *testing.T) {
	s := NewResponseService(testTemplates())

	assert.Empty(t, s.Generate(model.IntentCancelItem, nil, 0))
	assert.Empty(t, s.Generate("nope", nil, 0))
}

func TestHas(t *testing.T) {
	s := NewResponseService(testTemplates())

	assert.True(t, s.Has(model.IntentGreeting))
	assert.False(t, s.Has(model.IntentCancelItem))
	assert.False(t, s.Has("nope"))
}
