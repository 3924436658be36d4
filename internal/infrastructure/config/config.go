package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvConfigFile         = "RAG_CONFIG_FILE"
	EnvHTTPPort           = "RAG_HTTP_PORT"
	EnvSessionsDir        = "RAG_SESSIONS_DIR"
	EnvDocumentsDir       = "RAG_DOCUMENTS_DIR"
	EnvDatabasePath       = "RAG_DATABASE_PATH"
	EnvProviderEndpoint   = "RAG_PROVIDER_ENDPOINT"
	EnvProviderCredential = "RAG_PROVIDER_CREDENTIAL"
	EnvMDNSEnabled        = "RAG_MDNS_ENABLED"

	// 兼容旧部署的变量名
	EnvLegacyEndpoint   = "LLM_API_URL"
	EnvLegacyCredential = "LLM_API_KEY"
)

// Config 应用配置
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Storage      StorageConfig      `yaml:"storage"`
	Provider     ProviderConfig     `yaml:"provider"`
	Query        QueryConfig        `yaml:"query"`
	Conversation ConversationConfig `yaml:"conversation"`
	Documents    DocumentsConfig    `yaml:"documents"`
	WebSocket    WebSocketConfig    `yaml:"websocket"`
	Discovery    DiscoveryConfig    `yaml:"discovery"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 同时用作单例锁端口
}

// StorageConfig 存储路径，留空时在数据目录下推导
type StorageConfig struct {
	DataDir      string `yaml:"data_dir"`
	SessionsDir  string `yaml:"sessions_dir"`
	DocumentsDir string `yaml:"documents_dir"`
	DatabasePath string `yaml:"database_path"`
}

// ProviderConfig 检索生成服务配置
// Endpoint 为空时使用内置的模拟实现
type ProviderConfig struct {
	Endpoint         string        `yaml:"endpoint"`
	Credential       string        `yaml:"credential"`
	Timeout          time.Duration `yaml:"timeout"`
	FragmentInterval time.Duration `yaml:"fragment_interval"`
}

// QueryConfig 单次问答的默认检索参数
type QueryConfig struct {
	TopK   int    `yaml:"top_k"`
	Method string `yaml:"method"`
}

// ConversationConfig 多轮对话每轮使用的检索参数
type ConversationConfig struct {
	TopK   int    `yaml:"top_k"`
	Method string `yaml:"method"`
}

// DocumentsConfig 文档入库配置
type DocumentsConfig struct {
	ChunkTokens   int           `yaml:"chunk_tokens"`
	ChunkBytes    int           `yaml:"chunk_bytes"`
	InboxEnabled  bool          `yaml:"inbox_enabled"`
	InboxDebounce time.Duration `yaml:"inbox_debounce"`
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
}

// DiscoveryConfig 局域网 mDNS 广播
type DiscoveryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":8000",
		},
		Provider: ProviderConfig{
			Timeout:          60 * time.Second,
			FragmentInterval: 200 * time.Millisecond,
		},
		Query: QueryConfig{
			TopK:   3,
			Method: "hybrid",
		},
		Conversation: ConversationConfig{
			TopK:   2,
			Method: "hybrid",
		},
		Documents: DocumentsConfig{
			ChunkTokens:   512,
			ChunkBytes:    4096,
			InboxEnabled:  true,
			InboxDebounce: 500 * time.Millisecond,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Discovery: DiscoveryConfig{
			Instance: "rag-assistant",
		},
	}
}

// LoadDotEnv 加载当前目录下的 .env，文件不存在时忽略
// 已存在的环境变量不会被覆盖
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load 按 默认值 -> YAML 文件 -> 环境变量 的顺序加载配置
func Load() (*Config, error) {
	cfg := NewConfig()

	path, explicit := os.Getenv(EnvConfigFile), true
	if path == "" {
		path, explicit = filepath.Join(GetDataDir(), "config.yaml"), false
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.resolvePaths(GetDataDir())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.HTTPPort, EnvHTTPPort)
	setString(&c.Storage.SessionsDir, EnvSessionsDir)
	setString(&c.Storage.DocumentsDir, EnvDocumentsDir)
	setString(&c.Storage.DatabasePath, EnvDatabasePath)
	setString(&c.Provider.Endpoint, EnvLegacyEndpoint)
	setString(&c.Provider.Endpoint, EnvProviderEndpoint)
	setString(&c.Provider.Credential, EnvLegacyCredential)
	setString(&c.Provider.Credential, EnvProviderCredential)

	if v := os.Getenv(EnvMDNSEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Discovery.Enabled = b
		}
	}

	if c.Server.HTTPPort != "" && !strings.Contains(c.Server.HTTPPort, ":") {
		c.Server.HTTPPort = ":" + c.Server.HTTPPort
	}
}

func (c *Config) resolvePaths(dataDir string) {
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = dataDir
	}
	if c.Storage.SessionsDir == "" {
		c.Storage.SessionsDir = filepath.Join(c.Storage.DataDir, "sessions")
	}
	if c.Storage.DocumentsDir == "" {
		c.Storage.DocumentsDir = filepath.Join(c.Storage.DataDir, "documents")
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = filepath.Join(c.Storage.DataDir, "rag.db")
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.HTTPPort == "" {
		return errors.New("server.http_port is required")
	}
	if err := validateRetrieval("query", c.Query.TopK, c.Query.Method); err != nil {
		return err
	}
	if err := validateRetrieval("conversation", c.Conversation.TopK, c.Conversation.Method); err != nil {
		return err
	}
	if c.Documents.ChunkTokens < 1 || c.Documents.ChunkBytes < 1 {
		return errors.New("documents chunk sizes must be positive")
	}
	return nil
}

func validateRetrieval(section string, topK int, method string) error {
	if topK < 1 {
		return fmt.Errorf("%s.top_k must be positive, got %d", section, topK)
	}
	switch method {
	case "dense", "sparse", "hybrid":
		return nil
	default:
		return fmt.Errorf("%s.method must be one of dense, sparse, hybrid, got %q", section, method)
	}
}

// InboxDir 投递目录，放入的文件会被自动入库
func (s *StorageConfig) InboxDir() string {
	return filepath.Join(s.DocumentsDir, "inbox")
}

// SettingsPath 运行时 provider 覆盖配置文件
func (s *StorageConfig) SettingsPath() string {
	return filepath.Join(s.DataDir, "provider_settings.json")
}

// KeyPath 凭据加密密钥文件
func (s *StorageConfig) KeyPath() string {
	return filepath.Join(s.DataDir, ".key")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewStorageConfig 创建存储配置
func NewStorageConfig(cfg *Config) *StorageConfig {
	return &cfg.Storage
}

// NewProviderConfig 创建 provider 配置
func NewProviderConfig(cfg *Config) *ProviderConfig {
	return &cfg.Provider
}

// NewQueryConfig 创建单次问答配置
func NewQueryConfig(cfg *Config) *QueryConfig {
	return &cfg.Query
}

// NewConversationConfig 创建对话配置
func NewConversationConfig(cfg *Config) *ConversationConfig {
	return &cfg.Conversation
}

// NewDocumentsConfig 创建文档配置
func NewDocumentsConfig(cfg *Config) *DocumentsConfig {
	return &cfg.Documents
}

// NewWebSocketConfig 创建 WebSocket 配置
func NewWebSocketConfig(cfg *Config) *WebSocketConfig {
	return &cfg.WebSocket
}

// NewDiscoveryConfig 创建 mDNS 配置
func NewDiscoveryConfig(cfg *Config) *DiscoveryConfig {
	return &cfg.Discovery
}
