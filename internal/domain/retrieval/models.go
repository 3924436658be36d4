// Package retrieval 检索与生成服务的领域契约
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/rag-assistant/backend/internal/domain/conversation"
)

// Method 检索方式
type Method string

const (
	MethodDense  Method = "dense"
	MethodSparse Method = "sparse"
	MethodHybrid Method = "hybrid"
)

// DefaultTopK 单次问答默认返回的引用数
const DefaultTopK = 3

// ParseMethod 解析检索方式，空串返回 hybrid
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MethodHybrid, nil
	case MethodDense, MethodSparse, MethodHybrid:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
}

// QueryRequest 检索请求
type QueryRequest struct {
	Question string
	TopK     int
	Method   Method
}

// Validate 校验请求
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return conversation.ErrEmptyQuestion
	}
	if r.TopK < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidTopK, r.TopK)
	}
	if _, err := ParseMethod(string(r.Method)); err != nil {
		return err
	}
	return nil
}

// Answer 单次生成结果
type Answer struct {
	Answer   string                `json:"answer"`
	Sources  []conversation.Source `json:"sources"`
	Metadata map[string]any        `json:"metadata"`
}

// Provider 检索 + 生成服务
type Provider interface {
	// Query 一次性返回完整回答
	Query(ctx context.Context, req *QueryRequest) (*Answer, error)
	// Stream 返回逐段产出的回答，引用在第一段之前即可读取
	Stream(ctx context.Context, req *QueryRequest) (FragmentStream, error)
}

// FragmentStream 流式回答
type FragmentStream interface {
	// Sources 本次回答的引用
	Sources() []conversation.Source
	// Next 返回下一段文本，结束时返回 io.EOF
	Next(ctx context.Context) (string, error)
	Close() error
}
