package log

import (
	"os"
	"strconv"
	"strings"
)

// Config 日志配置
type Config struct {
	// Level debug, info, warn, error
	Level string `json:"level" yaml:"level"`

	// Format console 或 json
	Format string `json:"format" yaml:"format"`

	// Output stdout, stderr 或 file:/path/to/log
	Output string `json:"output" yaml:"output"`

	// AddSource 输出源文件位置
	AddSource bool `json:"add_source" yaml:"add_source"`
}

// NewConfigFromEnv 从环境变量读取日志配置
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     envOr("LOG_LEVEL", "info"),
		Format:    envOr("LOG_FORMAT", "console"),
		Output:    envOr("LOG_OUTPUT", "stdout"),
		AddSource: envBool("LOG_ADD_SOURCE", false),
	}

	if isDevelopment() {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.AddSource = true
	}

	return cfg
}

func isDevelopment() bool {
	return strings.EqualFold(envOr("ENV", "production"), "development")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
