package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rag-assistant/backend/internal/domain/document"
)

// DocumentRepository 文档目录的 SQLite 实现
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository 创建文档仓储并确保表存在
func NewDocumentRepository(db *sql.DB) (*DocumentRepository, error) {
	if err := initDocumentTable(db); err != nil {
		return nil, err
	}
	return &DocumentRepository{db: db}, nil
}

func initDocumentTable(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		file_path TEXT NOT NULL,
		size INTEGER NOT NULL,
		chunk_count INTEGER NOT NULL,
		content_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
	CREATE INDEX IF NOT EXISTS idx_documents_content_hash ON documents(content_hash);`
	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create documents indexes: %w", err)
	}
	return nil
}

// Save 新增或覆盖
func (r *DocumentRepository) Save(doc *document.Document) error {
	query := `
		INSERT OR REPLACE INTO documents
		(id, filename, file_path, size, chunk_count, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		doc.ID,
		doc.Filename,
		doc.FilePath,
		doc.Size,
		doc.ChunkCount,
		doc.ContentHash,
		doc.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

const documentColumns = `id, filename, file_path, size, chunk_count, content_hash, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*document.Document, error) {
	var doc document.Document
	var createdAt int64
	if err := row.Scan(
		&doc.ID,
		&doc.Filename,
		&doc.FilePath,
		&doc.Size,
		&doc.ChunkCount,
		&doc.ContentHash,
		&createdAt,
	); err != nil {
		return nil, err
	}
	doc.CreatedAt = time.UnixMilli(createdAt)
	return &doc, nil
}

// FindByID 按 ID 查询
func (r *DocumentRepository) FindByID(id string) (*document.Document, error) {
	row := r.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// FindAll 按创建时间降序列出
func (r *DocumentRepository) FindAll() ([]*document.Document, error) {
	rows, err := r.db.Query(`SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []*document.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// Delete 删除记录，不存在时返回 ErrDocumentNotFound
func (r *DocumentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if affected == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}
