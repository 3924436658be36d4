// Package http HTTP 接口层
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
	"github.com/rag-assistant/backend/internal/interfaces/http/handler"
	"github.com/rag-assistant/backend/internal/interfaces/http/middleware"
	"github.com/rag-assistant/backend/internal/interfaces/mcp"

	_ "github.com/rag-assistant/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// Handlers 路由用到的全部处理器
type Handlers struct {
	Conversation *handler.ConversationHandler
	Session      *handler.SessionHandler
	Query        *handler.QueryHandler
	Document     *handler.DocumentHandler
	Provider     *handler.ProviderHandler
	WebSocket    *handler.WebSocketHandler
}

// NewServer 创建 HTTP 服务器
func NewServer(cfg *config.ServerConfig, handlers *Handlers, mcpServer *mcp.MCPServer) *HTTPServer {
	if !log.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &HTTPServer{
		router:   NewRouter(handlers, mcpServer),
		httpPort: cfg.HTTPPort,
		logger:   log.NewModuleLogger("http", "server"),
	}
}

// NewRouter 注册中间件和路由，mcpServer 可为 nil
func NewRouter(h *Handlers, mcpServer *mcp.MCPServer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.CORS(), requestLogger())

	router.GET("/health", handler.Health)

	api := router.Group("/api/v1")
	api.Use(middleware.EnsureUTF8Body())
	{
		documents := api.Group("/documents")
		{
			documents.POST("/upload", h.Document.Upload)
			documents.GET("", h.Document.List)
			documents.GET("/:id", h.Document.Get)
			documents.DELETE("/:id", h.Document.Delete)
		}

		api.POST("/query", h.Query.Query)
		api.POST("/conversation", h.Conversation.Converse)
		api.POST("/conversation/stream", h.Conversation.Stream)

		sessions := api.Group("/sessions")
		{
			sessions.GET("", h.Session.List)
			sessions.GET("/:id", h.Session.Get)
			sessions.DELETE("/:id", h.Session.Delete)
		}

		api.GET("/provider/settings", h.Provider.GetSettings)
		api.POST("/provider/settings", h.Provider.UpdateSettings)

		api.GET("/ws", h.WebSocket.Connect)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}
	return router
}

// requestLogger 访问日志，带请求 ID
func requestLogger() gin.HandlerFunc {
	logger := log.NewModuleLogger("http", "access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.FromContext(c.Request.Context(), logger).Debug("Request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Handler 返回路由，供测试使用
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start 启动服务器，阻塞直到关闭
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:              s.httpPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
