package document

import "io"

// Repository 文档目录（元数据）
type Repository interface {
	Save(doc *Document) error
	// FindByID 不存在时返回 ErrDocumentNotFound
	FindByID(id string) (*Document, error)
	// FindAll 按创建时间降序
	FindAll() ([]*Document, error)
	Delete(id string) error
}

// BlobStore 原始文件存储
type BlobStore interface {
	// Put 写入内容，返回最终路径
	Put(id, filename string, content io.Reader) (path string, size int64, err error)
	Remove(path string) error
}

// Chunker 统计文本可切分出的块数
type Chunker interface {
	CountChunks(content []byte) (int, error)
}
