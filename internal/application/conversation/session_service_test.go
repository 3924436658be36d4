package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/events"
	infraRetrieval "github.com/rag-assistant/backend/internal/infrastructure/retrieval"
)

func TestSessionService(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewSessionService(f.store, f.publisher, f.locks)
	ctx := context.Background()

	empty, err := svc.ListSessions()
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a, err := f.engine.HandleTurn(ctx, "a", "")
	require.NoError(t, err)
	b, err := f.engine.HandleTurn(ctx, "b", "")
	require.NoError(t, err)

	list, err := svc.ListSessions()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.SessionID, list[0].ID)
	assert.Equal(t, a.SessionID, list[1].ID)
	assert.Equal(t, 2, list[0].MessageCount)

	got, err := svc.GetSession(a.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)

	_, err = svc.GetSession("missing")
	assert.ErrorIs(t, err, conversation.ErrSessionNotFound)

	require.NoError(t, svc.DeleteSession(a.SessionID))
	assert.ErrorIs(t, svc.DeleteSession(a.SessionID), conversation.ErrSessionNotFound)
	_, err = svc.GetSession(a.SessionID)
	assert.ErrorIs(t, err, conversation.ErrSessionNotFound)

	assert.Equal(t, events.SessionDeleted, f.publisher.types()[len(f.publisher.types())-1])
}

func TestSessionService_DeleteWaitsForRunningTurn(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
	}{
		{name: "existing session", existing: true},
		{name: "new session", existing: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, infraRetrieval.NewMockProvider(20*time.Millisecond))
			svc := NewSessionService(f.store, f.publisher, f.locks)
			ctx := context.Background()

			sessionID := ""
			if tt.existing {
				first, err := f.engine.HandleTurn(ctx, "first", "")
				require.NoError(t, err)
				sessionID = first.SessionID
			}

			ch, err := NewEmitter(f.engine).Stream(ctx, "second", sessionID)
			require.NoError(t, err)
			meta := <-ch
			require.Equal(t, StreamMetadata, meta.Type)

			deleted := make(chan error, 1)
			go func() {
				deleted <- svc.DeleteSession(meta.SessionID)
			}()

			evs := drain(t, ch)
			assert.Equal(t, StreamEnd, evs[len(evs)-1].Type)

			select {
			case err := <-deleted:
				require.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("delete did not finish")
			}

			result, err := f.store.Get(meta.SessionID)
			require.NoError(t, err)
			_, ok := result.Session()
			assert.False(t, ok, "deleted session must not be restored by the running turn")

			types := f.publisher.types()
			assert.Equal(t, events.SessionDeleted, types[len(types)-1])
			assert.Zero(t, f.locks.size())
		})
	}
}
