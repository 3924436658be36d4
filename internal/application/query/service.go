// Package query 单次问答
package query

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

// Request 问答请求，TopK 为 0 或 Method 为空时使用配置默认值
type Request struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
	Method   string `json:"method,omitempty"`
}

// Service 单次问答服务，不读写会话
type Service struct {
	provider retrieval.Provider
	cfg      *config.QueryConfig
	logger   *slog.Logger
}

// NewService 创建问答服务
func NewService(provider retrieval.Provider, cfg *config.QueryConfig) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   log.NewModuleLogger("query", "service"),
	}
}

// Resolve 补全默认值并校验
func (s *Service) Resolve(req *Request) (*retrieval.QueryRequest, error) {
	topK := req.TopK
	if topK == 0 {
		topK = s.cfg.TopK
	}
	raw := req.Method
	if raw == "" {
		raw = s.cfg.Method
	}
	method, err := retrieval.ParseMethod(raw)
	if err != nil {
		return nil, err
	}

	resolved := &retrieval.QueryRequest{Question: req.Question, TopK: topK, Method: method}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// Query 执行一次问答
func (s *Service) Query(ctx context.Context, req *Request) (*retrieval.Answer, error) {
	resolved, err := s.Resolve(req)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	answer, err := s.provider.Query(ctx, resolved)
	if err != nil {
		log.FromContext(ctx, s.logger).Error("Query failed",
			"method", resolved.Method,
			"top_k", resolved.TopK,
			"error", err,
		)
		return nil, fmt.Errorf("failed to answer question: %w", err)
	}

	metadata := make(map[string]any, len(answer.Metadata)+3)
	maps.Copy(metadata, answer.Metadata)
	metadata["retrieval_method"] = string(resolved.Method)
	metadata["top_k"] = resolved.TopK
	metadata["query_time_ms"] = time.Since(start).Milliseconds()

	sources := answer.Sources
	if sources == nil {
		sources = []conversation.Source{}
	}
	return &retrieval.Answer{Answer: answer.Answer, Sources: sources, Metadata: metadata}, nil
}
