package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rag-assistant/backend/internal/application/settings"
	"github.com/rag-assistant/backend/internal/interfaces/http/response"
)

// ProviderHandler provider 配置处理器
type ProviderHandler struct {
	service *settings.Service
}

// NewProviderHandler 创建 provider 配置处理器
func NewProviderHandler(service *settings.Service) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// GetSettings 读取 provider 配置
// @Summary 读取 provider 配置
// @Tags 配置
// @Produce json
// @Success 200 {object} response.Response{data=settings.View}
// @Router /provider/settings [get]
func (h *ProviderHandler) GetSettings(c *gin.Context) {
	view, err := h.service.Get()
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateSettings 更新 provider 配置，endpoint 为空时恢复静态配置
// @Summary 更新 provider 配置
// @Tags 配置
// @Accept json
// @Produce json
// @Param body body settings.UpdateRequest true "endpoint 与凭据"
// @Success 200 {object} response.Response{data=settings.View}
// @Failure 400 {object} response.ErrorResponse
// @Router /provider/settings [post]
func (h *ProviderHandler) UpdateSettings(c *gin.Context) {
	var req settings.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	view, err := h.service.Update(&req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, view)
}
