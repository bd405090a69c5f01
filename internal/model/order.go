package model

import "time"

// OrderStatus 是订单状态机中的一个状态。
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions 定义了合法的状态流转表。
// cancelled 和 delivered 是终态，不在表中的流转一律拒绝。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransitionTo 判断从当前状态到目标状态是否合法。
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Display 返回状态对应的用户可见文案。
func (s OrderStatus) Display() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusProcessing:
		return "Processing"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Order 代表一条订单记录。
// 状态只能通过定义好的取消流转被修改，其余场景均为只读查询。
type Order struct {
	ID           string      `gorm:"primaryKey;size:32" json:"orderId"`
	CustomerID   string      `gorm:"index;size:64" json:"customerId"`
	Status       OrderStatus `gorm:"size:16;not null" json:"status"`
	DeliveryDate string      `gorm:"size:32" json:"deliveryDate,omitempty"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"createdAt"`
}

func (Order) TableName() string {
	return "orders"
}

// Age 返回订单从创建至 now 的存续时长。
func (o *Order) Age(now time.Time) time.Duration {
	return now.Sub(o.CreatedAt)
}
