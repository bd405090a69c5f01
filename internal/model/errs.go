package model

import (
	"errors"
	"fmt"
)

// 校验类与查询类错误。校验失败（格式不合法）与"未找到"是两类不同的结果，
// 调用方需要区分处理并给出不同的用户提示。
var (
	ErrInvalidOrderID  = errors.New("invalid order id")
	ErrOrderNotFound   = errors.New("order not found")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrSessionNotFound = errors.New("session not found")
)

// 取消被拒绝时的原因码，原样透出给最终用户。
const (
	ReasonAlreadyShipped   = "already shipped"
	ReasonAlreadyDelivered = "already delivered"
	ReasonAlreadyCancelled = "already cancelled"
	ReasonWindowExpired    = "cancellation window expired"
)

// CancelDeniedError 表示业务规则拒绝了取消请求。
// 它不是内部故障：订单存在且状态一致，只是不满足取消条件。
type CancelDeniedError struct {
	OrderID string
	Reason  string
}

func (e *CancelDeniedError) Error() string {
	return fmt.Sprintf("order %s cannot be cancelled: %s", e.OrderID, e.Reason)
}

// AsCancelDenied 判断 err 是否为取消拒绝，并返回具体原因。
func AsCancelDenied(err error) (*CancelDeniedError, bool) {
	var cd *CancelDeniedError
	if errors.As(err, &cd) {
		return cd, true
	}
	return nil, false
}

// ErrEmptyMessage 表示请求中没有有效的用户输入。
var ErrEmptyMessage = errors.New("empty message")
