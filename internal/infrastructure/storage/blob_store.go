package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rag-assistant/backend/internal/domain/document"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
)

// FileBlobStore 上传文件按 <dir>/<id>_<filename> 保存
type FileBlobStore struct {
	dir string
}

// NewFileBlobStore 创建文件存储
func NewFileBlobStore(cfg *config.StorageConfig) *FileBlobStore {
	return &FileBlobStore{dir: cfg.DocumentsDir}
}

// NewFileBlobStoreAt 使用指定目录
func NewFileBlobStoreAt(dir string) *FileBlobStore {
	return &FileBlobStore{dir: dir}
}

// SafeFilename 去掉客户端路径，只保留文件名
func SafeFilename(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." || strings.TrimSpace(name) == "" {
		return "", document.ErrEmptyFilename
	}
	return name, nil
}

// Put 写入文件，返回保存路径和字节数
func (s *FileBlobStore) Put(id, filename string, content io.Reader) (string, int64, error) {
	name, err := SafeFilename(filename)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create documents directory: %w", err)
	}

	path := filepath.Join(s.dir, id+"_"+name)
	tmp, err := os.CreateTemp(s.dir, ".upload-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	size, err := io.Copy(tmp, content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("failed to store document: %w", err)
	}
	return path, size, nil
}

// Remove 删除文件，文件不存在不算错误
func (s *FileBlobStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove document file: %w", err)
	}
	return nil
}
