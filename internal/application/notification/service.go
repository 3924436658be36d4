// Package notification 把领域事件转换为客户端通知
package notification

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rag-assistant/backend/internal/domain/events"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

// Notification 推送给客户端的消息
type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

// Service 订阅会话与文档事件并推送
type Service struct {
	bus    events.EventBus
	pusher Pusher
	logger *slog.Logger

	mu    sync.Mutex
	unsub func()
}

// NewService 创建通知服务
func NewService(bus events.EventBus, pusher Pusher) *Service {
	return &Service{
		bus:    bus,
		pusher: pusher,
		logger: log.NewModuleLogger("notification", "service"),
	}
}

// Start 开始订阅
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		return
	}
	s.unsub = s.bus.SubscribeMultiple([]events.EventType{
		events.SessionUpdated,
		events.SessionDeleted,
		events.DocumentIngested,
		events.DocumentDeleted,
	}, events.HandlerFunc(s.HandleEvent))
}

// Stop 取消订阅
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// HandleEvent 转换并推送，推送失败只记录日志
func (s *Service) HandleEvent(event events.Event) error {
	n := toNotification(event)
	if n == nil {
		return nil
	}
	if err := s.pusher.Push(n); err != nil {
		s.logger.Warn("Failed to push notification",
			"type", n.Type,
			"error", err,
		)
	}
	return nil
}

func toNotification(event events.Event) *Notification {
	var data map[string]any
	switch e := event.(type) {
	case *events.SessionEvent:
		data = map[string]any{
			"session_id":    e.SessionID,
			"title":         e.Title,
			"message_count": e.MessageCount,
		}
	case *events.DocumentEvent:
		data = map[string]any{
			"document_id": e.DocumentID,
			"filename":    e.Filename,
			"chunk_count": e.ChunkCount,
		}
	default:
		return nil
	}
	return &Notification{
		ID:        uuid.New().String(),
		Type:      string(event.Type()),
		Data:      data,
		CreatedAt: event.Timestamp(),
	}
}
