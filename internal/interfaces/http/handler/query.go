package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rag-assistant/backend/internal/application/query"
	"github.com/rag-assistant/backend/internal/interfaces/http/response"
)

// QueryHandler 单次问答处理器
type QueryHandler struct {
	service *query.Service
}

// NewQueryHandler 创建问答处理器
func NewQueryHandler(service *query.Service) *QueryHandler {
	return &QueryHandler{service: service}
}

// Query 单次问答，不保存会话
// @Summary 单次问答
// @Tags 问答
// @Accept json
// @Produce json
// @Param body body query.Request true "问题与检索参数"
// @Success 200 {object} response.Response{data=retrieval.Answer}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /query [post]
func (h *QueryHandler) Query(c *gin.Context) {
	var req query.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	answer, err := h.service.Query(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, answer)
}
