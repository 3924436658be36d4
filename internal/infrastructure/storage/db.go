package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rag-assistant/backend/internal/infrastructure/config"

	_ "modernc.org/sqlite"
)

// OpenDB 打开 SQLite 数据库，目录不存在时创建
func OpenDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite 单写者，避免 database is locked
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	return db, nil
}

// ProvideDB 按配置打开数据库，cleanup 关闭连接
func ProvideDB(cfg *config.StorageConfig) (*sql.DB, func(), error) {
	db, err := OpenDB(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}
