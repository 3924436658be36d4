// Package response HTTP 统一响应与错误码映射
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/document"
	"github.com/rag-assistant/backend/internal/domain/retrieval"
)

// 业务错误码
const (
	CodeOK               = 0
	CodeValidation       = 40001
	CodeSessionNotFound  = 40401
	CodeDocumentNotFound = 40402
	CodeProcessing       = 50001
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
	})
}

// ErrorWithDetail 带详情的错误响应
func ErrorWithDetail(c *gin.Context, httpCode int, errCode int, message, detail string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
		Detail:  detail,
	})
}

// BadRequest 请求参数错误
func BadRequest(c *gin.Context, err error) {
	ErrorWithDetail(c, http.StatusBadRequest, CodeValidation, "invalid request", err.Error())
}

// Fail 按错误类型映射状态码
func Fail(c *gin.Context, err error) {
	httpCode, errCode, message := Classify(err)
	ErrorWithDetail(c, httpCode, errCode, message, err.Error())
}

// Classify 返回 HTTP 状态码、业务错误码和简短描述
func Classify(err error) (httpCode, errCode int, message string) {
	switch {
	case errors.Is(err, conversation.ErrEmptyQuestion),
		errors.Is(err, retrieval.ErrInvalidMethod),
		errors.Is(err, retrieval.ErrInvalidTopK),
		errors.Is(err, retrieval.ErrInvalidEndpoint),
		errors.Is(err, document.ErrEmptyFilename):
		return http.StatusBadRequest, CodeValidation, "invalid request"
	case errors.Is(err, conversation.ErrSessionNotFound):
		return http.StatusNotFound, CodeSessionNotFound, "session not found"
	case errors.Is(err, document.ErrDocumentNotFound):
		return http.StatusNotFound, CodeDocumentNotFound, "document not found"
	default:
		return http.StatusInternalServerError, CodeProcessing, "processing failed"
	}
}
