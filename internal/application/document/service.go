// Package document 文档入库与管理
package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rag-assistant/backend/internal/domain/document"
	"github.com/rag-assistant/backend/internal/domain/events"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
	"github.com/rag-assistant/backend/internal/infrastructure/storage"
)

// Service 文档服务：写入原文件、统计分块、登记目录
type Service struct {
	repo    document.Repository
	blobs   document.BlobStore
	chunker document.Chunker
	bus     events.EventBus
	logger  *slog.Logger

	mu    sync.Mutex
	unsub func()
}

// NewService 创建文档服务
func NewService(
	repo document.Repository,
	blobs document.BlobStore,
	chunker document.Chunker,
	bus events.EventBus,
) *Service {
	return &Service{
		repo:    repo,
		blobs:   blobs,
		chunker: chunker,
		bus:     bus,
		logger:  log.NewModuleLogger("document", "service"),
	}
}

// Ingest 入库一个文件
func (s *Service) Ingest(ctx context.Context, filename string, content []byte) (*document.Document, error) {
	name, err := storage.SafeFilename(filename)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	ctx = log.WithDocumentID(ctx, id)
	logger := log.FromContext(ctx, s.logger)

	chunks, err := s.chunker.CountChunks(content)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}

	path, size, err := s.blobs.Put(id, name, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(content)
	doc := &document.Document{
		ID:          id,
		Filename:    name,
		FilePath:    path,
		Size:        size,
		ChunkCount:  chunks,
		ContentHash: hex.EncodeToString(sum[:]),
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Save(doc); err != nil {
		if rmErr := s.blobs.Remove(path); rmErr != nil {
			logger.Warn("Failed to remove orphaned blob", "path", path, "error", rmErr)
		}
		return nil, err
	}

	logger.Info("Document ingested",
		"filename", name,
		"size", size,
		"chunk_count", chunks,
	)
	s.bus.Publish(&events.DocumentEvent{
		EventType:  events.DocumentIngested,
		DocumentID: id,
		Filename:   name,
		FilePath:   path,
		ChunkCount: chunks,
		EventTime:  doc.CreatedAt,
	})
	return doc, nil
}

// ListDocuments 文档列表，最新的在前
func (s *Service) ListDocuments() ([]*document.Document, error) {
	docs, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*document.Document{}
	}
	return docs, nil
}

// GetDocument 获取文档
func (s *Service) GetDocument(id string) (*document.Document, error) {
	return s.repo.FindByID(id)
}

// DeleteDocument 删除原文件和目录记录
func (s *Service) DeleteDocument(id string) error {
	doc, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.blobs.Remove(doc.FilePath); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("Document deleted", "document_id", id, "filename", doc.Filename)
	s.bus.Publish(&events.DocumentEvent{
		EventType:  events.DocumentDeleted,
		DocumentID: id,
		Filename:   doc.Filename,
		FilePath:   doc.FilePath,
		EventTime:  time.Now(),
	})
	return nil
}

// Start 订阅收件箱投递事件
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		return
	}
	s.unsub = s.bus.Subscribe(events.DocumentDropped, events.HandlerFunc(s.handleDropped))
}

// Stop 取消订阅
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// handleDropped 入库收件箱文件，成功后删除
func (s *Service) handleDropped(event events.Event) error {
	e, ok := event.(*events.DocumentEvent)
	if !ok {
		return nil
	}

	content, err := os.ReadFile(e.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read inbox file: %w", err)
	}

	if _, err := s.Ingest(context.Background(), filepath.Base(e.FilePath), content); err != nil {
		s.logger.Error("Failed to ingest inbox file", "path", e.FilePath, "error", err)
		return err
	}
	if err := os.Remove(e.FilePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("Failed to remove inbox file", "path", e.FilePath, "error", err)
	}
	return nil
}
