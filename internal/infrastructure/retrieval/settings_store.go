package retrieval

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rag-assistant/backend/internal/infrastructure/config"
)

// Settings 运行时 provider 覆盖
type Settings struct {
	Endpoint   string    `json:"endpoint"`
	Credential string    `json:"credential"` // 磁盘上为密文
	UpdatedAt  time.Time `json:"updated_at"`
}

// SettingsStore 读写 provider 覆盖配置，凭据加密保存
type SettingsStore struct {
	mu      sync.Mutex
	path    string
	keyPath string
	key     *EncryptionKey
}

// NewSettingsStore 创建配置存储，密钥在首次用到凭据时才加载
func NewSettingsStore(cfg *config.StorageConfig) *SettingsStore {
	return NewSettingsStoreAt(cfg.SettingsPath(), cfg.KeyPath())
}

// NewSettingsStoreAt 使用指定路径
func NewSettingsStoreAt(path, keyPath string) *SettingsStore {
	return &SettingsStore{path: path, keyPath: keyPath}
}

func (s *SettingsStore) encryptionKey() (*EncryptionKey, error) {
	if s.key == nil {
		key, err := LoadOrCreateKey(s.keyPath)
		if err != nil {
			return nil, err
		}
		s.key = key
	}
	return s.key, nil
}

// Load 读取覆盖配置，ok 为 false 表示从未保存过
func (s *SettingsStore) Load() (*Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read provider settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, false, fmt.Errorf("failed to parse provider settings: %w", err)
	}
	if settings.Credential != "" {
		key, err := s.encryptionKey()
		if err != nil {
			return nil, false, err
		}
		plain, err := key.Decrypt(settings.Credential)
		if err != nil {
			return nil, false, err
		}
		settings.Credential = plain
	}
	return &settings, true, nil
}

// Save 写入覆盖配置
func (s *SettingsStore) Save(settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *settings
	if stored.Credential != "" {
		key, err := s.encryptionKey()
		if err != nil {
			return err
		}
		encrypted, err := key.Encrypt(stored.Credential)
		if err != nil {
			return err
		}
		stored.Credential = encrypted
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal provider settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write provider settings: %w", err)
	}
	return nil
}

// Clear 删除覆盖配置，回到静态配置
func (s *SettingsStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove provider settings: %w", err)
	}
	return nil
}
