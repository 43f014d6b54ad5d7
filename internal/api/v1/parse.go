package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"gcide/internal/model"
)

// ParseRequest 单程序解析请求
type ParseRequest struct {
	Name     string `json:"name" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Save     bool   `json:"save"`     // 是否写入目录库
	Estimate bool   `json:"estimate"` // 是否对未解析尺寸做统计估算
}

// Parse 解析单个程序
// POST /api/parse
func (h *Handler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.currentEngine().ParseString(req.Name, req.Content)
	h.finishParse(c, res, req.Save, req.Estimate)
}

// ParseUpload 解析上传的程序文件
// POST /api/parse/upload
func (h *Handler) ParseUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少上传文件: " + err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "打开上传文件失败: " + err.Error()})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败: " + err.Error()})
		return
	}

	res := h.currentEngine().ParseString(fileHeader.Filename, string(content))
	save := c.Query("save") == "true"
	estimate := c.Query("estimate") == "true"
	h.finishParse(c, res, save, estimate)
}

func (h *Handler) finishParse(c *gin.Context, res *model.ParseResult, save, estimate bool) {
	if estimate {
		if err := h.estimator.FillUnresolved(res); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	var id string
	if save {
		var err error
		id, err = h.store.SaveResult(res)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     id,
		"result": res,
	})
}
