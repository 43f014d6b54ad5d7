package server

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	v1 "gcide/internal/api/v1"
	"gcide/internal/config"
	"gcide/internal/store"
)

// Server HTTP 服务器：纯 API，无前端资源
type Server struct {
	router *gin.Engine
	store  *store.Store
	v1     *v1.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "gcide.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("初始化目录库失败: %w", err)
	}

	exportDir := filepath.Join(dataDir, "exports")
	v1Handler := v1.NewHandler(sqliteStore, cfg.Engine, exportDir)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		v1:     v1Handler,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭服务器持有的资源
func (s *Server) Close() {
	if err := s.store.Close(); err != nil {
		log.Printf("关闭目录库失败: %v", err)
	}
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
