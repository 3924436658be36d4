// Package document 文档入库领域模型
package document

import "time"

// Document 已入库的文档
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	FilePath    string    `json:"file_path"`
	Size        int64     `json:"size"`
	ChunkCount  int       `json:"chunk_count"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
}
