package retrieval

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	domain "github.com/rag-assistant/backend/internal/domain/retrieval"
)

// mockMaxSources 模拟检索最多返回的引用数
const mockMaxSources = 3

// MockProvider 未配置外部服务时使用的占位实现
type MockProvider struct {
	fragmentInterval time.Duration
}

// NewMockProvider 创建模拟 provider，interval 为相邻两段之间的停顿
func NewMockProvider(interval time.Duration) *MockProvider {
	return &MockProvider{fragmentInterval: interval}
}

// Query 实现 Provider
func (p *MockProvider) Query(ctx context.Context, req *domain.QueryRequest) (*domain.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.Answer{
		Answer:   fmt.Sprintf("这是针对问题 '%s' 的模拟回答。在实际部署中，这里将调用LLM API生成回答。", req.Question),
		Sources:  mockSources(req.Question, req.TopK),
		Metadata: mockMetadata(req),
	}, nil
}

// Stream 实现 Provider
func (p *MockProvider) Stream(ctx context.Context, req *domain.QueryRequest) (domain.FragmentStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewSliceStream(mockSources(req.Question, req.TopK), mockFragments(req.Question), p.fragmentInterval), nil
}

func mockSources(question string, topK int) []conversation.Source {
	n := min(topK, mockMaxSources)
	sources := make([]conversation.Source, 0, max(n, 0))
	for i := 0; i < n; i++ {
		sources = append(sources, conversation.Source{
			DocumentID: fmt.Sprintf("doc_%d", i),
			FilePath:   fmt.Sprintf("sample_doc_%d.pdf", i),
			Title:      fmt.Sprintf("示例文档 %d", i),
			Text:       fmt.Sprintf("这是示例文档 %d 的内容片段，与问题 '%s' 相关。", i, question),
			Score:      0.9 - float64(i)*0.1,
		})
	}
	return sources
}

func mockFragments(question string) []string {
	return []string{
		"这是",
		"针对问题",
		fmt.Sprintf(" '%s' ", question),
		"的模拟",
		"流式回答。",
		"在实际部署中，",
		"这里将调用",
		"LLM API",
		"进行流式生成。",
	}
}

func mockMetadata(req *domain.QueryRequest) map[string]any {
	return map[string]any{
		"retrieval_method": string(req.Method),
		"top_k":            req.TopK,
		"provider":         "mock",
	}
}

// SliceStream 按固定片段回放的 FragmentStream
type SliceStream struct {
	sources   []conversation.Source
	fragments []string
	interval  time.Duration
	next      int
}

// NewSliceStream 创建回放流，interval 只作用于相邻两段之间
func NewSliceStream(sources []conversation.Source, fragments []string, interval time.Duration) *SliceStream {
	if sources == nil {
		sources = []conversation.Source{}
	}
	return &SliceStream{sources: sources, fragments: fragments, interval: interval}
}

// Sources 实现 FragmentStream
func (s *SliceStream) Sources() []conversation.Source {
	return s.sources
}

// Next 实现 FragmentStream
func (s *SliceStream) Next(ctx context.Context) (string, error) {
	if s.next >= len(s.fragments) {
		return "", io.EOF
	}
	if s.next > 0 && s.interval > 0 {
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	fragment := s.fragments[s.next]
	s.next++
	return fragment, nil
}

// Close 实现 FragmentStream
func (s *SliceStream) Close() error {
	s.next = len(s.fragments)
	return nil
}
