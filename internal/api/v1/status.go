package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	TotalPrograms int            `json:"totalPrograms"` // 目录库程序总数
	StatusCounts  map[string]int `json:"statusCounts"`  // 各整体状态的程序数
	LastBatch     interface{}    `json:"lastBatch"`     // 最近一次批量解析（可为空）
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	total, err := h.store.CountPrograms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	counts, err := h.store.StatusCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := StatusResponse{
		TotalPrograms: total,
		StatusCounts:  counts,
	}
	if last, err := h.store.LastBatchLog(); err == nil {
		resp.LastBatch = last
	}

	c.JSON(http.StatusOK, resp)
}
