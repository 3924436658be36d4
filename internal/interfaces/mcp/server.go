// Package mcp 以 MCP 工具形式暴露问答与会话能力
package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appConversation "github.com/rag-assistant/backend/internal/application/conversation"
	appDocument "github.com/rag-assistant/backend/internal/application/document"
	"github.com/rag-assistant/backend/internal/application/query"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
	infraRetrieval "github.com/rag-assistant/backend/internal/infrastructure/retrieval"
)

// Version 服务版本
const Version = "0.1.0"

// MCPServer MCP 服务器
type MCPServer struct {
	server    *mcp.Server
	handler   http.Handler
	query     *query.Service
	engine    *appConversation.Engine
	sessions  *appConversation.SessionService
	documents *appDocument.Service
	provider  *infraRetrieval.SwitchableProvider
	logger    *slog.Logger
}

// NewServer 创建 MCP 服务器并注册工具
func NewServer(
	queryService *query.Service,
	engine *appConversation.Engine,
	sessions *appConversation.SessionService,
	documents *appDocument.Service,
	provider *infraRetrieval.SwitchableProvider,
) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "rag-assistant",
			Version: Version,
		},
		nil,
	)

	s := &MCPServer{
		server:    server,
		query:     queryService,
		engine:    engine,
		sessions:  sessions,
		documents: documents,
		provider:  provider,
		logger:    log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_service_status",
		Description: "Get the status of the RAG assistant service: version, provider mode (mock or remote), number of stored sessions and ingested documents. No parameters required.",
	}, s.getServiceStatusTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "ask_question",
		Description: `Ask a one-off question against the document knowledge base. Nothing is stored.
Parameters:
- question (string, required): the question
- top_k (int, optional): number of sources to retrieve, defaults to the server setting
- method (string, optional): dense, sparse or hybrid, defaults to hybrid

Returns: answer, cited sources and metadata (retrieval_method, top_k, query_time_ms).`,
	}, s.askQuestionTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "converse",
		Description: `Continue a multi-turn conversation. The turn is stored in the session.
Parameters:
- question (string, required): the user message
- session_id (string, optional): existing session; omitted or unknown ids start a new session

Returns: answer, session_id to reuse for the next turn, sources and metadata.`,
	}, s.converseTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List stored conversation sessions, most recently updated first. No parameters required. Returns: session summaries (id, title, created_at, updated_at, message_count) and total count.",
	}, s.listSessionsTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_session",
		Description: "Get the full message history of a session. Parameters: session_id (string, required). Returns: the session with all messages and their sources.",
	}, s.getSessionTool)

	s.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil,
	)
	return s
}

// GetHandler 获取 HTTP Handler（挂到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Server 底层 MCP 服务器
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}
