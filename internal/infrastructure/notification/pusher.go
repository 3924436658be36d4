package notification

import (
	"github.com/rag-assistant/backend/internal/application/notification"
	"github.com/rag-assistant/backend/internal/infrastructure/websocket"
)

// WebSocketPusher 通过 Hub 广播通知
type WebSocketPusher struct {
	hub *websocket.Hub
}

// NewWebSocketPusher 创建推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{hub: hub}
}

// Push 实现 notification.Pusher
func (p *WebSocketPusher) Push(n *notification.Notification) error {
	return p.hub.Broadcast(n)
}

var _ notification.Pusher = (*WebSocketPusher)(nil)
