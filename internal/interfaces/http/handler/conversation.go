package handler

import (
	"log/slog"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	appConversation "github.com/rag-assistant/backend/internal/application/conversation"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
	"github.com/rag-assistant/backend/internal/interfaces/http/response"
)

// sseDone 流结束标记
const sseDone = "[DONE]"

// ConversationHandler 多轮对话处理器
type ConversationHandler struct {
	engine  *appConversation.Engine
	emitter *appConversation.Emitter
	logger  *slog.Logger
}

// NewConversationHandler 创建对话处理器
func NewConversationHandler(engine *appConversation.Engine, emitter *appConversation.Emitter) *ConversationHandler {
	return &ConversationHandler{
		engine:  engine,
		emitter: emitter,
		logger:  log.NewModuleLogger("http", "conversation"),
	}
}

// ConversationRequest 对话请求
type ConversationRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// Converse 处理一轮对话
// @Summary 多轮对话
// @Tags 对话
// @Accept json
// @Produce json
// @Param body body ConversationRequest true "问题与可选的会话 ID"
// @Success 200 {object} response.Response{data=appConversation.TurnResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /conversation [post]
func (h *ConversationHandler) Converse(c *gin.Context) {
	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.SessionID != "" {
		ctx = log.WithSessionID(ctx, req.SessionID)
	}
	result, err := h.engine.HandleTurn(ctx, req.Question, req.SessionID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Stream 流式对话，以 SSE 输出事件，最后一条为 [DONE]
// 客户端断开后继续读完事件，保证本轮照常保存
// @Summary 流式对话
// @Tags 对话
// @Accept json
// @Produce text/event-stream
// @Param body body ConversationRequest true "问题与可选的会话 ID"
// @Success 200 {string} string "data:{json}"
// @Failure 400 {object} response.ErrorResponse
// @Router /conversation/stream [post]
func (h *ConversationHandler) Stream(c *gin.Context) {
	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	events, err := h.emitter.Stream(ctx, req.Question, req.SessionID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	gone := ctx.Done()
	connected := true
	for ev := range events {
		if connected {
			select {
			case <-gone:
				connected = false
				log.FromContext(ctx, h.logger).Info("Client disconnected, finishing turn in background")
			default:
			}
		}
		if !connected {
			continue
		}
		writeData(c, ev)
	}
	if connected {
		writeData(c, sseDone)
	}
}

// writeData 写出只含 data 行的 SSE 帧
func writeData(c *gin.Context, data any) {
	c.Render(-1, sse.Event{Data: data})
	c.Writer.Flush()
}
