package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	infraRetrieval "github.com/rag-assistant/backend/internal/infrastructure/retrieval"
)

func newService() *Service {
	return NewService(infraRetrieval.NewMockProvider(0), &config.QueryConfig{TopK: 3, Method: "hybrid"})
}

func TestService_Query_Defaults(t *testing.T) {
	answer, err := newService().Query(context.Background(), &Request{Question: "什么是RAG"})
	require.NoError(t, err)

	assert.Contains(t, answer.Answer, "什么是RAG")
	assert.Len(t, answer.Sources, 3)
	assert.Equal(t, "hybrid", answer.Metadata["retrieval_method"])
	assert.Equal(t, 3, answer.Metadata["top_k"])
	assert.Contains(t, answer.Metadata, "query_time_ms")
	assert.Equal(t, "doc_0", answer.Sources[0].DocumentID)
	assert.InDelta(t, 0.9, answer.Sources[0].Score, 1e-9)
}

func TestService_Query_Overrides(t *testing.T) {
	answer, err := newService().Query(context.Background(), &Request{Question: "q", TopK: 1, Method: "dense"})
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 1)
	assert.Equal(t, "dense", answer.Metadata["retrieval_method"])
	assert.Equal(t, 1, answer.Metadata["top_k"])
}

func TestService_Query_Validation(t *testing.T) {
	svc := newService()
	tests := []struct {
		name string
		req  *Request
		err  error
	}{
		{"empty question", &Request{Question: " "}, conversation.ErrEmptyQuestion},
		{"negative top_k", &Request{Question: "q", TopK: -1}, retrieval.ErrInvalidTopK},
		{"unknown method", &Request{Question: "q", Method: "fuzzy"}, retrieval.ErrInvalidMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Query(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
