package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/rag-assistant/backend/internal/infrastructure/log"
	"github.com/rag-assistant/backend/internal/infrastructure/websocket"
)

// WebSocketHandler 事件推送连接
type WebSocketHandler struct {
	upgrader *websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler 创建 WebSocket 处理器
func NewWebSocketHandler(upgrader *websocket.Upgrader) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: upgrader,
		logger:   log.NewModuleLogger("http", "websocket"),
	}
}

// Connect 升级为 WebSocket，推送会话与文档事件
// @Summary 事件推送
// @Tags 通知
// @Router /ws [get]
func (h *WebSocketHandler) Connect(c *gin.Context) {
	if err := h.upgrader.Serve(c.Writer, c.Request); err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
	}
}
