// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"time"

	"ecom-support-go/internal/model"
	"ecom-support-go/internal/service"
	"ecom-support-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ChatHandler 负责处理对话相关的 HTTP 与 WebSocket 请求。
type ChatHandler struct {
	dialogueService service.DialogueService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(dialogueService service.DialogueService) *ChatHandler {
	return &ChatHandler{dialogueService: dialogueService}
}

// PostMessage 处理一轮 REST 方式的对话请求。
// 请求未携带 session_id 时自动分配一个新会话。
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "message is required",
			"data":    nil,
		})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result, err := h.dialogueService.ProcessTurn(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		status, msg := turnErrorStatus(err)
		c.JSON(status, gin.H{"code": status, "message": msg, "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": model.ChatResponse{
			SessionID:  result.SessionID,
			Reply:      result.Response,
			Intent:     result.Intent,
			Confidence: result.Confidence,
			Timestamp:  time.Now(),
		},
	})
}

// turnErrorStatus 把对话层的校验错误映射为 HTTP 状态与提示。
func turnErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrEmptyMessage):
		return http.StatusBadRequest, "message must not be empty"
	case errors.Is(err, model.ErrMessageTooLong):
		return http.StatusBadRequest, "message exceeds the maximum allowed length"
	}
	return http.StatusInternalServerError, "failed to process message"
}

// GetHistory 返回会话当前保留的历史消息。
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "session_id is required",
			"data":    nil,
		})
		return
	}

	history, err := h.dialogueService.GetHistory(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to retrieve conversation history",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    history,
	})
}

// ResetSession 清空指定会话的历史与上下文。
func (h *ChatHandler) ResetSession(c *gin.Context) {
	var req model.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "session_id is required",
			"data":    nil,
		})
		return
	}

	if err := h.dialogueService.ResetSession(c.Request.Context(), req.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to reset session",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "session reset",
		"data":    nil,
	})
}

// Handle 处理 WebSocket 聊天连接：每个文本帧是一轮对话，
// 响应帧携带回复文本与分类信息。连接首帧未携带 session_id 时
// 为整条连接分配一个会话。
func (h *ChatHandler) Handle(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer ws.Close()

	connSessionID := uuid.NewString()

	for {
		var req model.ChatRequest
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("WebSocket 连接异常关闭: %v", err)
			}
			return
		}

		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = connSessionID
		}

		result, err := h.dialogueService.ProcessTurn(c.Request.Context(), sessionID, req.Message)
		if err != nil {
			_, msg := turnErrorStatus(err)
			if writeErr := ws.WriteJSON(gin.H{"error": msg, "session_id": sessionID}); writeErr != nil {
				return
			}
			continue
		}

		resp := model.ChatResponse{
			SessionID:  result.SessionID,
			Reply:      result.Response,
			Intent:     result.Intent,
			Confidence: result.Confidence,
			Timestamp:  time.Now(),
		}
		if err := ws.WriteJSON(resp); err != nil {
			log.Error("写入 WebSocket 响应失败", err)
			return
		}
	}
}
