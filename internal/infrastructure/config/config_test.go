package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate 清空会影响加载结果的环境变量，并把数据目录指向临时目录
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		EnvConfigFile, EnvHTTPPort, EnvSessionsDir, EnvDocumentsDir, EnvDatabasePath,
		EnvProviderEndpoint, EnvProviderCredential, EnvLegacyEndpoint, EnvLegacyCredential,
		EnvMDNSEnabled,
	} {
		t.Setenv(key, "")
	}
	t.Setenv(EnvDataDir, dir)
	ResetDataDir()
	t.Cleanup(ResetDataDir)
	return dir
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, ":8000", cfg.Server.HTTPPort)
	assert.Equal(t, 3, cfg.Query.TopK)
	assert.Equal(t, 2, cfg.Conversation.TopK)
	assert.Equal(t, "hybrid", cfg.Conversation.Method)
	assert.Equal(t, 200*time.Millisecond, cfg.Provider.FragmentInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DerivesPathsFromDataDir(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(dir, "sessions"), cfg.Storage.SessionsDir)
	assert.Equal(t, filepath.Join(dir, "documents"), cfg.Storage.DocumentsDir)
	assert.Equal(t, filepath.Join(dir, "rag.db"), cfg.Storage.DatabasePath)
	assert.Equal(t, filepath.Join(dir, "documents", "inbox"), cfg.Storage.InboxDir())
	assert.Empty(t, cfg.Provider.Endpoint)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	content := `
server:
  http_port: ":9100"
provider:
  endpoint: http://provider.local
  timeout: 5s
conversation:
  top_k: 4
  method: dense
discovery:
  enabled: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.HTTPPort)
	assert.Equal(t, "http://provider.local", cfg.Provider.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 4, cfg.Conversation.TopK)
	assert.Equal(t, "dense", cfg.Conversation.Method)
	assert.True(t, cfg.Discovery.Enabled)
	// 未出现在文件里的字段保留默认值
	assert.Equal(t, 3, cfg.Query.TopK)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  endpoint: http://from-file\n"), 0644))

	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvProviderEndpoint, "http://from-env")
	t.Setenv(EnvLegacyCredential, "legacy-key")
	t.Setenv(EnvHTTPPort, "9200")
	t.Setenv(EnvSessionsDir, "/srv/sessions")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", cfg.Provider.Endpoint)
	assert.Equal(t, "legacy-key", cfg.Provider.Credential)
	assert.Equal(t, ":9200", cfg.Server.HTTPPort)
	assert.Equal(t, "/srv/sessions", cfg.Storage.SessionsDir)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		isolate(t)
		t.Setenv(EnvConfigFile, "/nonexistent/config.yaml")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [\n"), 0644))
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid method", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("query:\n  method: fuzzy\n"), 0644))
		_, err := Load()
		assert.ErrorContains(t, err, "query.method")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty port", func(c *Config) { c.Server.HTTPPort = "" }, true},
		{"zero top_k", func(c *Config) { c.Conversation.TopK = 0 }, true},
		{"sparse method", func(c *Config) { c.Query.Method = "sparse" }, false},
		{"zero chunk size", func(c *Config) { c.Documents.ChunkTokens = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
