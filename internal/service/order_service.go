// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ecom-support-go/internal/model"
	"ecom-support-go/internal/repository"
	"ecom-support-go/pkg/keylock"
	"ecom-support-go/pkg/log"
)

// 合法订单号形如 ORD 加数字，大小写不敏感。
var orderIDRe = regexp.MustCompile(`^ORD\d+$`)

// OrderService 定义了订单查询与取消操作的接口。
type OrderService interface {
	// GetOrder 按订单号查找订单。
	// 订单号格式非法返回 model.ErrInvalidOrderID，不存在返回 model.ErrOrderNotFound。
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	// CanCancel 判断订单当前是否可取消，不可取消时给出人类可读的原因。
	CanCancel(ctx context.Context, orderID string) (bool, string, error)
	// CancelOrder 取消订单。不满足取消条件时返回 *model.CancelDeniedError，
	// 订单状态保持不变。
	CancelOrder(ctx context.Context, orderID string) error
	// ListCustomerOrders 返回某个客户的全部订单。
	ListCustomerOrders(ctx context.Context, customerID string) ([]model.Order, error)
}

type orderService struct {
	repo         repository.OrderRepository
	cancelWindow time.Duration
	locks        *keylock.KeyedMutex
	now          func() time.Time
}

// NewOrderService 创建一个新的 OrderService 实例。
// cancelWindow 是下单后允许取消的时间窗口。
func NewOrderService(repo repository.OrderRepository, cancelWindow time.Duration) OrderService {
	return &orderService{
		repo:         repo,
		cancelWindow: cancelWindow,
		locks:        keylock.New(),
		now:          time.Now,
	}
}

// normalizeOrderID 校验并规范化订单号。
func normalizeOrderID(orderID string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(orderID))
	if !orderIDRe.MatchString(id) {
		return "", model.ErrInvalidOrderID
	}
	return id, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	id, err := normalizeOrderID(orderID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID string) ([]model.Order, error) {
	return s.repo.FindByCustomer(ctx, customerID)
}

// CanCancel 返回订单当前是否可取消。
// 结果在每次调用时基于当前状态和订单年龄重新计算，不做缓存。
func (s *orderService) CanCancel(ctx context.Context, orderID string) (bool, string, error) {
	id, err := normalizeOrderID(orderID)
	if err != nil {
		return false, "", err
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, "", err
	}
	allowed, reason := s.evaluateCancel(order)
	return allowed, reason, nil
}

// evaluateCancel 是取消资格的唯一判定点：
// 状态必须是 pending 或 processing，且订单年龄在取消窗口内。
func (s *orderService) evaluateCancel(order *model.Order) (bool, string) {
	switch order.Status {
	case model.OrderStatusShipped:
		return false, model.ReasonAlreadyShipped
	case model.OrderStatusDelivered:
		return false, model.ReasonAlreadyDelivered
	case model.OrderStatusCancelled:
		return false, model.ReasonAlreadyCancelled
	}
	if order.Age(s.now()) > s.cancelWindow {
		return false, model.ReasonWindowExpired
	}
	return true, ""
}

// CancelOrder 在订单号粒度的锁内执行"检查-取消"。
// 两个并发的取消请求会被串行化：先到者完成状态流转，
// 后到者重新读取后得到 already cancelled 的拒绝。
func (s *orderService) CancelOrder(ctx context.Context, orderID string) error {
	id, err := normalizeOrderID(orderID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if allowed, reason := s.evaluateCancel(order); !allowed {
		return &model.CancelDeniedError{OrderID: id, Reason: reason}
	}
	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		// evaluateCancel 已经覆盖了所有终态，到这里说明状态表被改坏了
		return fmt.Errorf("订单 %s 状态 %s 不允许流转到 cancelled", id, order.Status)
	}

	ok, err := s.repo.UpdateStatus(ctx, id, order.Status, model.OrderStatusCancelled)
	if err != nil {
		return fmt.Errorf("取消订单 %s 失败: %w", id, err)
	}
	if !ok {
		// 条件更新落空：状态在读取后被其他请求改掉了，重新判定给出原因
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		_, reason := s.evaluateCancel(current)
		if reason == "" {
			reason = model.ReasonAlreadyCancelled
		}
		return &model.CancelDeniedError{OrderID: id, Reason: reason}
	}

	log.Infof("订单 %s 已取消", id)
	return nil
}
