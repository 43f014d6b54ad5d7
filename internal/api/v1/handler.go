package v1

import (
	"sync"

	"github.com/gin-gonic/gin"

	"gcide/internal/config"
	"gcide/internal/engine"
	"gcide/internal/estimator"
	"gcide/internal/exporter"
	"gcide/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store     *store.Store
	exportDir string
	downloads *exportDownloadStore

	mu        sync.RWMutex
	engineCfg config.EngineConfig
	engine    *engine.Engine
	estimator *estimator.Estimator
}

// NewHandler 创建 V1 API 处理器
func NewHandler(s *store.Store, engineCfg config.EngineConfig, exportDir string) *Handler {
	return &Handler{
		store:     s,
		exportDir: exportDir,
		downloads: newExportDownloadStore(),
		engineCfg: engineCfg,
		engine:    engine.New(engineCfg),
		estimator: estimator.New(s),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 引擎阈值配置
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// 程序解析
	router.POST("/parse", h.Parse)
	router.POST("/parse/upload", h.ParseUpload)

	// 目录库查询
	router.GET("/programs", h.ListPrograms)
	router.GET("/programs/:id", h.GetProgram)
	router.DELETE("/programs/:id", h.DeleteProgram)

	// 清单导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}

// currentEngine 取当前引擎（阈值热更新后引擎整体重建）
func (h *Handler) currentEngine() *engine.Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.engine
}

// exporterFor 按当前目录库创建导出器
func (h *Handler) exporterFor() *exporter.Exporter {
	return exporter.NewExporter(h.store)
}
