package handler

import (
	"net/http"
	"strconv"

	"ecom-support-go/internal/service"
	"ecom-support-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// FAQHandler 处理 FAQ 检索的 API 请求。
type FAQHandler struct {
	faqService service.FAQService
}

// NewFAQHandler 创建一个新的 FAQHandler。
func NewFAQHandler(faqService service.FAQService) *FAQHandler {
	return &FAQHandler{faqService: faqService}
}

// Search 对 FAQ 语料做相似度检索。
// q 为查询文本，top_k 可选；没有条目越过阈值时返回空列表。
func (h *FAQHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "q is required",
			"data":    nil,
		})
		return
	}

	topK := 0
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "top_k must be a positive integer",
				"data":    nil,
			})
			return
		}
		topK = parsed
	}

	matches, err := h.faqService.Retrieve(c.Request.Context(), query, topK)
	if err != nil {
		log.Error("FAQ 检索失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to search faq",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    matches,
	})
}
