// Package chunking 按 token 窗口统计文档分块
package chunking

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/rag-assistant/backend/internal/infrastructure/config"
)

// 使用内置词表，避免运行时联网下载
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

const encodingName = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

func loadEncoding() (*tiktoken.Tiktoken, error) {
	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding(encodingName)
	})
	return encoding, encodingErr
}

// TokenChunker 文本按 token 窗口切分，二进制内容按字节切分
type TokenChunker struct {
	enc         *tiktoken.Tiktoken
	chunkTokens int
	chunkBytes  int
}

// NewTokenChunker 创建分块器
func NewTokenChunker(cfg *config.DocumentsConfig) (*TokenChunker, error) {
	return NewTokenChunkerWithSize(cfg.ChunkTokens, cfg.ChunkBytes)
}

// NewTokenChunkerWithSize 使用指定窗口大小
func NewTokenChunkerWithSize(chunkTokens, chunkBytes int) (*TokenChunker, error) {
	if chunkTokens < 1 || chunkBytes < 1 {
		return nil, fmt.Errorf("invalid chunk size: tokens=%d bytes=%d", chunkTokens, chunkBytes)
	}
	enc, err := loadEncoding()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encodingName, err)
	}
	return &TokenChunker{enc: enc, chunkTokens: chunkTokens, chunkBytes: chunkBytes}, nil
}

// CountTokens 文本的 token 数
func (c *TokenChunker) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// CountChunks 统计内容可切出的块数，空内容为 0
func (c *TokenChunker) CountChunks(content []byte) (int, error) {
	if len(content) == 0 {
		return 0, nil
	}
	if !utf8.Valid(content) {
		return ceilDiv(len(content), c.chunkBytes), nil
	}
	tokens := c.CountTokens(string(content))
	if tokens == 0 {
		return 1, nil
	}
	return ceilDiv(tokens, c.chunkTokens), nil
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
