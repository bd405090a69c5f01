package handler

import (
	"errors"
	"net/http"

	"ecom-support-go/internal/model"
	"ecom-support-go/internal/service"
	"ecom-support-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// OrderHandler 处理订单查询与取消的 API 请求。
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler 创建一个新的 OrderHandler。
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetOrder 按订单号查询订单。
// 订单号格式非法返回 400，不存在返回 404，两类结果的提示语不同。
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	switch {
	case errors.Is(err, model.ErrInvalidOrderID):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "invalid order id format",
			"data":    nil,
		})
		return
	case errors.Is(err, model.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "order not found",
			"data":    nil,
		})
		return
	case err != nil:
		log.Error("查询订单失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to look up order",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    order,
	})
}

// ListOrders 按客户号列出订单。
func (h *OrderHandler) ListOrders(c *gin.Context) {
	customerID := c.Query("customerId")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "customerId is required",
			"data":    nil,
		})
		return
	}

	orders, err := h.orderService.ListCustomerOrders(c.Request.Context(), customerID)
	if err != nil {
		log.Error("查询客户订单失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to list orders",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    orders,
	})
}

// CancelOrder 请求取消订单。
// 业务规则拒绝时返回 409，并把具体原因透出给调用方。
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	err := h.orderService.CancelOrder(c.Request.Context(), orderID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"code":    http.StatusOK,
			"message": "success",
			"data":    model.CancelResult{OrderID: orderID, Cancelled: true},
		})
		return
	case errors.Is(err, model.ErrInvalidOrderID):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "invalid order id format",
			"data":    nil,
		})
		return
	case errors.Is(err, model.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "order not found",
			"data":    nil,
		})
		return
	}

	if denied, ok := model.AsCancelDenied(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"code":    http.StatusConflict,
			"message": "cancellation not allowed",
			"data":    model.CancelResult{OrderID: denied.OrderID, Cancelled: false, Reason: denied.Reason},
		})
		return
	}

	log.Error("取消订单失败", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    http.StatusInternalServerError,
		"message": "failed to cancel order",
		"data":    nil,
	})
}
