// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"ecom-support-go/internal/model"

	"gorm.io/gorm"
)

// OrderRepository 定义了订单数据的访问接口。
// UpdateStatus 是条件更新（仅当前状态与 from 一致时才生效），
// 并发的取消请求靠它保证只有一个能成功。
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error)
}

// ---- GORM 实现 ----

type gormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建基于 MySQL 的 OrderRepository 实例。
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

// FindByID 按订单号查找订单，不存在时返回 model.ErrOrderNotFound。
func (r *gormOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("id = ?", strings.ToUpper(id)).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	return &order, nil
}

// FindByCustomer 返回某个客户的全部订单。
func (r *gormOrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Find(&orders).Error
	return orders, err
}

// UpdateStatus 以 compare-and-set 方式更新订单状态。
// 返回 false 表示订单当前状态已不是 from，本次更新没有生效。
func (r *gormOrderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", strings.ToUpper(id), from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("更新订单状态失败: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ---- 内存实现 ----

// memoryOrderRepository 是进程内的订单存储，从种子文件加载。
// 与 GORM 实现共用同一契约，可整体替换为真实持久层。
type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*model.Order
}

// NewMemoryOrderRepository 用给定的订单集合创建内存实现。
func NewMemoryOrderRepository(seed []model.Order) OrderRepository {
	m := &memoryOrderRepository{orders: make(map[string]*model.Order, len(seed))}
	for i := range seed {
		o := seed[i]
		o.ID = strings.ToUpper(o.ID)
		m.orders[o.ID] = &o
	}
	return m
}

func (r *memoryOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[strings.ToUpper(id)]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memoryOrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var orders []model.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (r *memoryOrderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[strings.ToUpper(id)]
	if !ok {
		return false, model.ErrOrderNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

// ---- 种子文件加载 ----

// seedOrder 是种子文件中的一条订单。
// created_offset_hours 表示订单创建时间相对当前时刻的回溯小时数，
// 用它而不是绝对时间戳，演示数据才不会随时间推移全部过期。
type seedOrder struct {
	OrderID            string `json:"order_id"`
	CustomerID         string `json:"customer_id"`
	Status             string `json:"status"`
	DeliveryDate       string `json:"delivery_date"`
	CreatedOffsetHours int    `json:"created_offset_hours"`
}

type seedFile struct {
	Orders []seedOrder `json:"orders"`
}

// LoadOrderSeed 从 JSON 种子文件加载订单集合。
func LoadOrderSeed(path string) ([]model.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取订单种子文件失败: %w", err)
	}
	var f seedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析订单种子文件失败: %w", err)
	}

	now := time.Now()
	orders := make([]model.Order, 0, len(f.Orders))
	for _, s := range f.Orders {
		orders = append(orders, model.Order{
			ID:           strings.ToUpper(s.OrderID),
			CustomerID:   s.CustomerID,
			Status:       model.OrderStatus(s.Status),
			DeliveryDate: s.DeliveryDate,
			CreatedAt:    now.Add(-time.Duration(s.CreatedOffsetHours) * time.Hour),
		})
	}
	return orders, nil
}
