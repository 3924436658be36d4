package handler

import (
	"github.com/gin-gonic/gin"

	appConversation "github.com/rag-assistant/backend/internal/application/conversation"
	"github.com/rag-assistant/backend/internal/interfaces/http/response"
)

// SessionHandler 会话处理器
type SessionHandler struct {
	service *appConversation.SessionService
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(service *appConversation.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// List 会话列表
// @Summary 会话列表
// @Tags 会话
// @Produce json
// @Success 200 {object} response.Response{data=[]conversation.SessionSummary}
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	summaries, err := h.service.ListSessions()
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, summaries)
}

// Get 会话详情
// @Summary 会话详情
// @Tags 会话
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} response.Response{data=conversation.Session}
// @Failure 404 {object} response.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.service.GetSession(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, session)
}

// Delete 删除会话
// @Summary 删除会话
// @Tags 会话
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteSession(id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"session_id": id, "deleted": true})
}
