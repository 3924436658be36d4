package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/events"
	"github.com/rag-assistant/backend/internal/domain/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	infraRetrieval "github.com/rag-assistant/backend/internal/infrastructure/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/storage"
)

// MockProvider 可编排的 provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Query(ctx context.Context, req *retrieval.QueryRequest) (*retrieval.Answer, error) {
	args := m.Called(ctx, req)
	if a := args.Get(0); a != nil {
		return a.(*retrieval.Answer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) Stream(ctx context.Context, req *retrieval.QueryRequest) (retrieval.FragmentStream, error) {
	args := m.Called(ctx, req)
	if s := args.Get(0); s != nil {
		return s.(retrieval.FragmentStream), args.Error(1)
	}
	return nil, args.Error(1)
}

// failingStream 产出若干片段后报错
type failingStream struct {
	fragments []string
	err       error
	pos       int
}

func (s *failingStream) Sources() []conversation.Source {
	return []conversation.Source{{DocumentID: "doc_1", Text: "t", Score: 0.9}}
}

func (s *failingStream) Next(context.Context) (string, error) {
	if s.pos < len(s.fragments) {
		s.pos++
		return s.fragments[s.pos-1], nil
	}
	return "", s.err
}

func (s *failingStream) Close() error { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type())
	}
	return out
}

// failingRepo 保存总是失败
type failingRepo struct {
	conversation.SessionRepository
}

func (r failingRepo) Save(*conversation.Session) error {
	return fmt.Errorf("%w: disk full", conversation.ErrPersistence)
}

type fixture struct {
	store     *storage.SessionStore
	publisher *recordingPublisher
	locks     *SessionLocks
	engine    *Engine
}

func newFixture(t *testing.T, provider retrieval.Provider) *fixture {
	t.Helper()
	store, err := storage.NewSessionStoreAt(t.TempDir())
	require.NoError(t, err)
	if provider == nil {
		provider = infraRetrieval.NewMockProvider(0)
	}
	pub := &recordingPublisher{}
	locks := NewSessionLocks()
	engine, err := NewEngine(store, provider, pub, locks, &config.ConversationConfig{TopK: 2, Method: "hybrid"})
	require.NoError(t, err)

	// 固定递增时钟，避免同一毫秒内的时间比较
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	engine.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return &fixture{store: store, publisher: pub, locks: locks, engine: engine}
}

func (f *fixture) load(t *testing.T, id string) *conversation.Session {
	t.Helper()
	result, err := f.store.Get(id)
	require.NoError(t, err)
	session, ok := result.Session()
	require.True(t, ok, "session %s should exist", id)
	return session
}

func drain(t *testing.T, ch <-chan StreamEvent) []StreamEvent {
	t.Helper()
	var out []StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("stream did not finish")
			return out
		}
	}
}
