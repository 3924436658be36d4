package document

import "errors"

var (
	// ErrDocumentNotFound 文档不存在
	ErrDocumentNotFound = errors.New("document not found")
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("filename is required")
)
