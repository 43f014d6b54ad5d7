package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gcide/internal/store"
)

// ListPrograms 列出程序记录
// GET /api/programs?family=&status=&limit=&offset=
func (h *Handler) ListPrograms(c *gin.Context) {
	opts := store.ProgramQueryOptions{}
	if v := c.Query("family"); v != "" {
		opts.Family = &v
	}
	if v := c.Query("status"); v != "" {
		opts.Status = &v
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	records, err := h.store.ListPrograms(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []store.ProgramRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"programs": records,
		"count":    len(records),
	})
}

// GetProgram 获取单条程序记录（含全部结论）
// GET /api/programs/:id
func (h *Handler) GetProgram(c *gin.Context) {
	id := c.Param("id")

	rec, err := h.store.GetProgram(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "程序不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	findings, err := h.store.GetFindings(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"program":  rec,
		"findings": findings,
	})
}

// DeleteProgram 删除程序记录
// DELETE /api/programs/:id
func (h *Handler) DeleteProgram(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteProgram(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "程序不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
