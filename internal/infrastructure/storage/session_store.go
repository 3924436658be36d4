package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

const sessionFileExt = ".json"

// SessionStore 每个会话一个 JSON 文件：<dir>/<id>.json
// 不做缓存，每次调用都直接读写磁盘
type SessionStore struct {
	dir    string
	logger *slog.Logger
}

// NewSessionStore 创建会话存储
func NewSessionStore(cfg *config.StorageConfig) (*SessionStore, error) {
	return NewSessionStoreAt(cfg.SessionsDir)
}

// NewSessionStoreAt 使用指定目录创建会话存储
func NewSessionStoreAt(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &SessionStore{
		dir:    dir,
		logger: log.NewModuleLogger("storage", "session_store"),
	}, nil
}

// Dir 会话目录
func (s *SessionStore) Dir() string {
	return s.dir
}

func (s *SessionStore) path(id string) string {
	return filepath.Join(s.dir, id+sessionFileExt)
}

// Get 读取会话，文件不存在或 ID 非法时返回 NotFound
func (s *SessionStore) Get(id string) (conversation.LookupResult, error) {
	if !conversation.ValidSessionID(id) {
		return conversation.NotFound(), nil
	}

	session, err := readSessionFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return conversation.NotFound(), nil
		}
		return conversation.NotFound(), fmt.Errorf("%w: %w", conversation.ErrPersistence, err)
	}
	return conversation.Found(session), nil
}

// Save 整体覆盖写入，先写临时文件再 rename
func (s *SessionStore) Save(session *conversation.Session) error {
	if !conversation.ValidSessionID(session.ID) {
		return fmt.Errorf("%w: invalid session id %q", conversation.ErrPersistence, session.ID)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal session: %w", conversation.ErrPersistence, err)
	}
	if err := writeFileAtomic(s.dir, s.path(session.ID), data); err != nil {
		return fmt.Errorf("%w: %w", conversation.ErrPersistence, err)
	}

	s.logger.Debug("Session saved",
		"session_id", session.ID,
		"message_count", len(session.Messages),
	)
	return nil
}

// ListSummaries 列出全部会话，按 UpdatedAt 降序，相同时按 ID 升序
// 任一文件损坏时整体返回错误
func (s *SessionStore) ListSummaries() ([]*conversation.SessionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*conversation.SessionSummary{}, nil
		}
		return nil, fmt.Errorf("%w: read sessions directory: %w", conversation.ErrPersistence, err)
	}

	summaries := make([]*conversation.SessionSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sessionFileExt) {
			continue
		}
		session, err := readSessionFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", conversation.ErrPersistence, err)
		}
		summaries = append(summaries, session.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// Delete 删除会话文件，返回是否删除了记录
func (s *SessionStore) Delete(id string) (bool, error) {
	if !conversation.ValidSessionID(id) {
		return false, nil
	}
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: delete session %s: %w", conversation.ErrPersistence, id, err)
	}
	s.logger.Debug("Session deleted", "session_id", id)
	return true, nil
}

func readSessionFile(path string) (*conversation.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var session conversation.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	session.Normalize()
	return &session, nil
}

// writeFileAtomic 写入同目录临时文件后 rename，崩溃时不会留下半截文件
func writeFileAtomic(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
