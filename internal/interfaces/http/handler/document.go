package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appDocument "github.com/rag-assistant/backend/internal/application/document"
	"github.com/rag-assistant/backend/internal/interfaces/http/response"
)

// maxUploadBytes 单个上传文件上限
const maxUploadBytes = 64 << 20

// DocumentHandler 文档处理器
type DocumentHandler struct {
	service *appDocument.Service
}

// NewDocumentHandler 创建文档处理器
func NewDocumentHandler(service *appDocument.Service) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Upload 上传并入库文档
// @Summary 上传文档
// @Tags 文档
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "文档文件"
// @Success 200 {object} response.Response{data=document.Document}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeValidation, "file is required", err.Error())
		return
	}
	if header.Size > maxUploadBytes {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeValidation, "file too large",
			fmt.Sprintf("%d bytes exceeds limit of %d", header.Size, maxUploadBytes))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Fail(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		response.Fail(c, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	doc, err := h.service.Ingest(c.Request.Context(), header.Filename, content)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"chunk_count": doc.ChunkCount,
		"document":    doc,
	})
}

// List 文档列表
// @Summary 文档列表
// @Tags 文档
// @Produce json
// @Success 200 {object} response.Response{data=[]document.Document}
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.service.ListDocuments()
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, docs)
}

// Get 文档详情
// @Summary 文档详情
// @Tags 文档
// @Produce json
// @Param id path string true "文档 ID"
// @Success 200 {object} response.Response{data=document.Document}
// @Failure 404 {object} response.ErrorResponse
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.GetDocument(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, doc)
}

// Delete 删除文档
// @Summary 删除文档
// @Tags 文档
// @Produce json
// @Param id path string true "文档 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteDocument(id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"document_id": id, "deleted": true})
}
