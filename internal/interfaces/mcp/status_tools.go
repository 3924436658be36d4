package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServiceStatusInput 服务状态输入（空输入）
type ServiceStatusInput struct{}

// ServiceStatusOutput 服务状态输出
type ServiceStatusOutput struct {
	Status        string `json:"status" jsonschema:"Running status"`
	Version       string `json:"version" jsonschema:"Service version"`
	ProviderMode  string `json:"provider_mode" jsonschema:"Answer provider: mock or remote"`
	SessionCount  int    `json:"session_count" jsonschema:"Number of stored sessions"`
	DocumentCount int    `json:"document_count" jsonschema:"Number of ingested documents"`
}

// getServiceStatusTool 统计失败时计数为 -1，不影响返回
func (s *MCPServer) getServiceStatusTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ServiceStatusInput,
) (*mcp.CallToolResult, ServiceStatusOutput, error) {
	output := ServiceStatusOutput{
		Status:        "running",
		Version:       Version,
		ProviderMode:  s.provider.Mode(),
		SessionCount:  -1,
		DocumentCount: -1,
	}

	if summaries, err := s.sessions.ListSessions(); err == nil {
		output.SessionCount = len(summaries)
	} else {
		s.logger.Warn("Failed to count sessions", "error", err)
	}
	if docs, err := s.documents.ListDocuments(); err == nil {
		output.DocumentCount = len(docs)
	} else {
		s.logger.Warn("Failed to count documents", "error", err)
	}
	return nil, output, nil
}
