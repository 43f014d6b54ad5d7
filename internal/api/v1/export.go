package v1

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const downloadTTL = 10 * time.Minute

// Export 生成清单工作簿并返回下载令牌
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	if err := os.MkdirAll(h.exportDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建导出目录失败: " + err.Error()})
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", uuid.New().String())
	outPath := filepath.Join(h.exportDir, filename)

	if err := h.exporterFor().ExportToFile(outPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token := h.downloads.put(outPath, downloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": int(downloadTTL.Seconds()),
	})
}

// DownloadExport 按令牌下载导出文件（令牌一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载令牌无效或已过期"})
		return
	}
	h.downloads.delete(token)

	c.FileAttachment(item.filePath, filepath.Base(item.filePath))
}
