package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))

	// 终态与非法流转
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
}

func TestOrderStatusDisplay(t *testing.T) {
	assert.Equal(t, "Shipped", OrderStatusShipped.Display())
	assert.Equal(t, "Pending", OrderStatusPending.Display())
	assert.Equal(t, "Cancelled", OrderStatusCancelled.Display())
	assert.Equal(t, "weird", OrderStatus("weird").Display())
}

func TestOrderAge(t *testing.T) {
	now := time.Now()
	o := &Order{CreatedAt: now.Add(-3 * time.Hour)}
	assert.Equal(t, 3*time.Hour, o.Age(now))
}

func TestSessionAppendTurnBounded(t *testing.T) {
	s := NewSession("s1")
	for i := 0; i < 25; i++ {
		s.AppendTurn(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), 20)
	}

	assert.Equal(t, 20, s.Turns())
	assert.Len(t, s.Messages, 40)
	// 最旧的轮次被淘汰，第 5 轮成为最早保留的
	assert.Equal(t, "q5", s.Messages[0].Content)
	assert.Equal(t, "a24", s.Messages[len(s.Messages)-1].Content)
}

func TestSessionAppendTurnRoles(t *testing.T) {
	s := NewSession("s1")
	s.AppendTurn("hello", "hi", 20)

	assert.Equal(t, "user", s.Messages[0].Role)
	assert.Equal(t, "assistant", s.Messages[1].Role)
}

func TestAsCancelDenied(t *testing.T) {
	var err error = &CancelDeniedError{OrderID: "ORD001", Reason: ReasonAlreadyShipped}

	denied, ok := AsCancelDenied(err)
	assert.True(t, ok)
	assert.Equal(t, "ORD001", denied.OrderID)
	assert.Equal(t, "already shipped", denied.Reason)

	wrapped := fmt.Errorf("cancel failed: %w", err)
	_, ok = AsCancelDenied(wrapped)
	assert.True(t, ok)

	_, ok = AsCancelDenied(ErrOrderNotFound)
	assert.False(t, ok)
}
