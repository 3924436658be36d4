package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rag-assistant/backend/internal/application/query"
	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

// AskQuestionInput 单次问答输入
type AskQuestionInput struct {
	Question string `json:"question" jsonschema:"The question to answer"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"Number of sources to retrieve"`
	Method   string `json:"method,omitempty" jsonschema:"Retrieval method: dense, sparse or hybrid"`
}

// AnswerOutput 问答输出
type AnswerOutput struct {
	Answer    string                `json:"answer" jsonschema:"Generated answer"`
	SessionID string                `json:"session_id,omitempty" jsonschema:"Session that stores this turn"`
	Sources   []conversation.Source `json:"sources" jsonschema:"Cited document fragments"`
	Metadata  map[string]any        `json:"metadata" jsonschema:"Retrieval metadata"`
}

// ConverseInput 对话输入
type ConverseInput struct {
	Question  string `json:"question" jsonschema:"The user message"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Session to continue, omitted to start a new one"`
}

func (s *MCPServer) askQuestionTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AskQuestionInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	answer, err := s.query.Query(ctx, &query.Request{
		Question: input.Question,
		TopK:     input.TopK,
		Method:   input.Method,
	})
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	return nil, AnswerOutput{
		Answer:   answer.Answer,
		Sources:  answer.Sources,
		Metadata: answer.Metadata,
	}, nil
}

func (s *MCPServer) converseTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ConverseInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	if input.SessionID != "" {
		ctx = log.WithSessionID(ctx, input.SessionID)
	}
	result, err := s.engine.HandleTurn(ctx, input.Question, input.SessionID)
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	return nil, AnswerOutput{
		Answer:    result.Answer,
		SessionID: result.SessionID,
		Sources:   result.Sources,
		Metadata:  result.Metadata,
	}, nil
}
