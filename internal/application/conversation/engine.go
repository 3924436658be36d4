// Package conversation 多轮对话编排：会话解析、生成、持久化和流式输出
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/events"
	"github.com/rag-assistant/backend/internal/domain/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

// Engine 处理一轮对话：解析会话、追加消息、调用 provider、保存
// 同一会话的并发请求串行执行
type Engine struct {
	repo      conversation.SessionRepository
	provider  retrieval.Provider
	publisher events.Publisher
	locks     *SessionLocks

	topK   int
	method retrieval.Method

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// NewEngine 创建对话引擎
func NewEngine(
	repo conversation.SessionRepository,
	provider retrieval.Provider,
	publisher events.Publisher,
	locks *SessionLocks,
	cfg *config.ConversationConfig,
) (*Engine, error) {
	method, err := retrieval.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	if cfg.TopK < 1 {
		return nil, fmt.Errorf("%w: %d", retrieval.ErrInvalidTopK, cfg.TopK)
	}
	return &Engine{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		locks:     locks,
		topK:      cfg.TopK,
		method:    method,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    log.NewModuleLogger("conversation", "engine"),
	}, nil
}

// turn 一轮对话的进行中状态
type turn struct {
	session *conversation.Session
	created bool
	unlock  func()
}

// begin 解析会话并加锁
// 未提供 ID 或 ID 不存在时创建新会话并生成新 ID
func (e *Engine) begin(question, sessionID string) (*turn, error) {
	unlock := func() {}
	if sessionID != "" {
		unlock = e.locks.Lock(sessionID)
		result, err := e.repo.Get(sessionID)
		if err != nil {
			unlock()
			return nil, err
		}
		if session, ok := result.Session(); ok {
			return &turn{session: session, unlock: unlock}, nil
		}
		unlock()
		e.logger.Info("Session not found, starting a new one", "requested_id", sessionID)
	}

	// 新会话同样加锁，元数据发出后到保存前的删除会排在保存之后
	session := conversation.NewSession(e.newID(), question, e.now())
	return &turn{session: session, created: true, unlock: e.locks.Lock(session.ID)}, nil
}

// finish 追加助手消息、刷新时间并保存
func (e *Engine) finish(ctx context.Context, t *turn, answer string, sources []conversation.Source) error {
	at := e.now()
	t.session.AppendAssistant(answer, sources, at)
	t.session.Touch(at)
	if err := e.repo.Save(t.session); err != nil {
		return err
	}

	e.publisher.Publish(&events.SessionEvent{
		EventType:    events.SessionUpdated,
		SessionID:    t.session.ID,
		Title:        t.session.Title,
		MessageCount: len(t.session.Messages),
		EventTime:    at,
	})
	log.FromContext(ctx, e.logger).Info("Turn completed",
		"session_id", t.session.ID,
		"new_session", t.created,
		"message_count", len(t.session.Messages),
	)
	return nil
}

func (e *Engine) request(question string) *retrieval.QueryRequest {
	return &retrieval.QueryRequest{Question: question, TopK: e.topK, Method: e.method}
}

// HandleTurn 非流式处理一轮对话
// 失败时本轮不落盘，已存在的会话保持原样
func (e *Engine) HandleTurn(ctx context.Context, question, sessionID string) (*TurnResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, conversation.ErrEmptyQuestion
	}
	start := time.Now()

	t, err := e.begin(question, sessionID)
	if err != nil {
		return nil, err
	}
	defer t.unlock()

	t.session.AppendUser(question, e.now())

	answer, err := e.provider.Query(ctx, e.request(question))
	if err != nil {
		log.FromContext(ctx, e.logger).Error("Failed to generate answer",
			"session_id", t.session.ID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	if err := e.finish(ctx, t, answer.Answer, answer.Sources); err != nil {
		return nil, err
	}

	metadata := make(map[string]any, len(answer.Metadata)+1)
	maps.Copy(metadata, answer.Metadata)
	metadata["query_time_ms"] = time.Since(start).Milliseconds()

	sources := answer.Sources
	if sources == nil {
		sources = []conversation.Source{}
	}
	return &TurnResult{
		Answer:    answer.Answer,
		SessionID: t.session.ID,
		Sources:   sources,
		Metadata:  metadata,
	}, nil
}
