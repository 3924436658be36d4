package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rag-assistant/backend/internal/domain/conversation"
)

// ListSessionsInput 会话列表输入（空输入）
type ListSessionsInput struct{}

// ListSessionsOutput 会话列表输出
type ListSessionsOutput struct {
	Sessions []*conversation.SessionSummary `json:"sessions" jsonschema:"Session summaries, most recent first"`
	Total    int                            `json:"total" jsonschema:"Number of sessions"`
}

// GetSessionInput 会话详情输入
type GetSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID"`
}

// GetSessionOutput 会话详情输出
type GetSessionOutput struct {
	Session *conversation.Session `json:"session" jsonschema:"Full session with messages"`
}

func (s *MCPServer) listSessionsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListSessionsInput,
) (*mcp.CallToolResult, ListSessionsOutput, error) {
	summaries, err := s.sessions.ListSessions()
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}
	return nil, ListSessionsOutput{Sessions: summaries, Total: len(summaries)}, nil
}

func (s *MCPServer) getSessionTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetSessionInput,
) (*mcp.CallToolResult, GetSessionOutput, error) {
	session, err := s.sessions.GetSession(input.SessionID)
	if err != nil {
		return nil, GetSessionOutput{}, err
	}
	return nil, GetSessionOutput{Session: session}, nil
}
