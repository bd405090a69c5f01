package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-support-go/internal/model"
)

func seedOrders() []model.Order {
	now := time.Now()
	return []model.Order{
		{ID: "ORD001", CustomerID: "CUST-1", Status: model.OrderStatusShipped, DeliveryDate: "2026-09-02", CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "ORD002", CustomerID: "CUST-1", Status: model.OrderStatusProcessing, CreatedAt: now.Add(-6 * time.Hour)},
		{ID: "ORD003", CustomerID: "CUST-2", Status: model.OrderStatusPending, CreatedAt: now.Add(-48 * time.Hour)},
	}
}

func TestMemoryOrderFindByID(t *testing.T) {
	repo := NewMemoryOrderRepository(seedOrders())

	order, err := repo.FindByID(context.Background(), "ORD001")
	require.NoError(t, err)
	assert.Equal(t, "ORD001", order.ID)
	assert.Equal(t, model.OrderStatusShipped, order.Status)

	// 大小写不敏感
	order, err = repo.FindByID(context.Background(), "ord002")
	require.NoError(t, err)
	assert.Equal(t, "ORD002", order.ID)
}

func TestMemoryOrderFindByIDNotFound(t *testing.T) {
	repo := NewMemoryOrderRepository(seedOrders())

	_, err := repo.FindByID(context.Background(), "ORD999")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestMemoryOrderReturnsCopy(t *testing.T) {
	repo := NewMemoryOrderRepository(seedOrders())

	order, err := repo.FindByID(context.Background(), "ORD002")
	require.NoError(t, err)
	order.Status = model.OrderStatusDelivered

	again, err := repo.FindByID(context.Background(), "ORD002")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, again.Status)
}

func TestMemoryOrderFindByCustomer(t *testing.T) {
	repo := NewMemoryOrderRepository(seedOrders())

	orders, err := repo.FindByCustomer(context.Background(), "CUST-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = repo.FindByCustomer(context.Background(), "CUST-404")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestMemoryOrderUpdateStatusCAS(t *testing.T) {
	repo := NewMemoryOrderRepository(seedOrders())
	ctx := context.Background()

	ok, err := repo.UpdateStatus(ctx, "ORD003", model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.True(t, ok)

	// 第二次同样的前置状态不再成立
	ok, err = repo.UpdateStatus(ctx, "ORD003", model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	order, err := repo.FindByID(ctx, "ORD003")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)
}

func TestMemoryOrderUpdateStatusNotFound(t *testing.T) {
	repo := NewMemoryOrderRepository(nil)

	_, err := repo.UpdateStatus(context.Background(), "ORD001", model.OrderStatusPending, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestLoadOrderSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	data := `{
  "orders": [
    {"order_id": "ord010", "customer_id": "CUST-9", "status": "pending", "created_offset_hours": 2},
    {"order_id": "ORD011", "customer_id": "CUST-9", "status": "shipped", "delivery_date": "2026-09-05", "created_offset_hours": 72}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	orders, err := LoadOrderSeed(path)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "ORD010", orders[0].ID)
	assert.Equal(t, model.OrderStatusPending, orders[0].Status)
	assert.WithinDuration(t, time.Now().Add(-2*time.Hour), orders[0].CreatedAt, time.Minute)

	assert.Equal(t, "ORD011", orders[1].ID)
	assert.Equal(t, "2026-09-05", orders[1].DeliveryDate)
}

func TestLoadOrderSeedMissingFile(t *testing.T) {
	_, err := LoadOrderSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
