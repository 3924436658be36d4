package conversation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/events"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

// SessionService 会话查询与删除
type SessionService struct {
	repo      conversation.SessionRepository
	publisher events.Publisher
	locks     *SessionLocks
	logger    *slog.Logger
}

// NewSessionService 创建会话服务
func NewSessionService(repo conversation.SessionRepository, publisher events.Publisher, locks *SessionLocks) *SessionService {
	return &SessionService{
		repo:      repo,
		publisher: publisher,
		locks:     locks,
		logger:    log.NewModuleLogger("conversation", "session_service"),
	}
}

// ListSessions 会话列表，最近更新的在前
func (s *SessionService) ListSessions() ([]*conversation.SessionSummary, error) {
	summaries, err := s.repo.ListSummaries()
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []*conversation.SessionSummary{}
	}
	return summaries, nil
}

// GetSession 获取完整会话
func (s *SessionService) GetSession(id string) (*conversation.Session, error) {
	result, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	session, ok := result.Session()
	if !ok {
		return nil, fmt.Errorf("%w: %s", conversation.ErrSessionNotFound, id)
	}
	return session, nil
}

// DeleteSession 删除会话，进行中的一轮对话保存完成后才会执行
func (s *SessionService) DeleteSession(id string) error {
	unlock := s.locks.Lock(id)
	deleted, err := s.repo.Delete(id)
	unlock()
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", conversation.ErrSessionNotFound, id)
	}

	s.logger.Info("Session deleted", "session_id", id)
	s.publisher.Publish(&events.SessionEvent{
		EventType: events.SessionDeleted,
		SessionID: id,
		EventTime: time.Now(),
	})
	return nil
}
