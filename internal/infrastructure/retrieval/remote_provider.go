package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	domain "github.com/rag-assistant/backend/internal/domain/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

// 错误响应体最多保留的字节数
const maxErrorBody = 4096

// RemoteProvider 通过 HTTP 调用外部检索生成服务
type RemoteProvider struct {
	client *resty.Client
	logger *slog.Logger
}

type remoteQueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
	Method   string `json:"method"`
}

type remoteQueryResponse struct {
	Answer   string                `json:"answer"`
	Sources  []conversation.Source `json:"sources"`
	Metadata map[string]any        `json:"metadata"`
}

// NewRemoteProvider 创建远程 provider
func NewRemoteProvider(endpoint, credential string, timeout time.Duration) *RemoteProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if credential != "" {
		client.SetAuthToken(credential)
	}
	return &RemoteProvider{
		client: client,
		logger: log.NewModuleLogger("retrieval", "remote_provider"),
	}
}

// Query 实现 Provider
func (p *RemoteProvider) Query(ctx context.Context, req *domain.QueryRequest) (*domain.Answer, error) {
	p.logger.Debug("Sending retrieval request",
		"base_url", p.client.BaseURL,
		"top_k", req.TopK,
		"method", req.Method,
	)

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(remoteQueryRequest{
			Question: req.Question,
			TopK:     req.TopK,
			Method:   string(req.Method),
		}).
		Post("/query")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := truncateUTF8(resp.String(), maxErrorBody)
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProviderUnavailable, resp.StatusCode(), strings.TrimSpace(msg))
	}

	var out remoteQueryResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrProviderUnavailable, err)
	}
	if out.Sources == nil {
		out.Sources = []conversation.Source{}
	}
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	out.Metadata["provider"] = "remote"

	return &domain.Answer{Answer: out.Answer, Sources: out.Sources, Metadata: out.Metadata}, nil
}

// Stream 实现 Provider，远程服务只提供单次接口，这里把完整回答按词切段回放
func (p *RemoteProvider) Stream(ctx context.Context, req *domain.QueryRequest) (domain.FragmentStream, error) {
	answer, err := p.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewSliceStream(answer.Sources, splitWords(answer.Answer), 0), nil
}

// truncateUTF8 截断到 limit 字节以内，不切开多字节字符
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// splitWords 按空白切段并保留分隔符，拼接后与原文一致
func splitWords(text string) []string {
	if text == "" {
		return nil
	}
	var parts []string
	start := 0
	for i, r := range text {
		if r == ' ' || r == '\n' {
			parts = append(parts, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}
