package config

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名
	EnvDataDir = "RAG_DATA_DIR"
	// DefaultDataDirName 默认数据目录名
	DefaultDataDirName = ".rag-assistant"
)

var (
	dataDirOnce sync.Once
	dataDirPath string
)

// GetDataDir 数据根目录，优先 RAG_DATA_DIR，默认 ~/.rag-assistant
// 首次调用后结果被缓存
func GetDataDir() string {
	dataDirOnce.Do(func() {
		if dir := os.Getenv(EnvDataDir); dir != "" {
			dataDirPath = dir
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			dataDirPath = DefaultDataDirName
			return
		}
		dataDirPath = filepath.Join(home, DefaultDataDirName)
	})
	return dataDirPath
}

// ResetDataDir 清除缓存，仅用于测试
func ResetDataDir() {
	dataDirOnce = sync.Once{}
	dataDirPath = ""
}
