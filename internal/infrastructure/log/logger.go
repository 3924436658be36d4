package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/rag-assistant/backend/internal/infrastructure/log/handler"
)

const serviceName = "rag-assistant"

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
	debugMode     bool
)

// Init 初始化全局 logger
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	logger := slog.New(newHandler(cfg.Format, openOutput(cfg.Output), opts)).
		With(slog.String("service", serviceName))

	mu.Lock()
	defaultLogger = logger
	debugMode = parseLevel(cfg.Level) == slog.LevelDebug
	mu.Unlock()

	slog.SetDefault(logger)
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return handler.NewJSONHandler(out, opts)
	}
	return handler.NewConsoleHandler(out, opts)
}

// openOutput 解析输出目标，文件打开失败时回退到 stdout
func openOutput(output string) io.Writer {
	switch {
	case output == "" || output == "stdout":
		return os.Stdout
	case output == "stderr":
		return os.Stderr
	case strings.HasPrefix(output, "file:"):
		f, err := os.OpenFile(strings.TrimPrefix(output, "file:"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return os.Stdout
		}
		return f
	default:
		return os.Stdout
	}
}

// GetLogger 获取全局 logger，未初始化时按环境变量初始化
func GetLogger() *slog.Logger {
	mu.RLock()
	logger := defaultLogger
	mu.RUnlock()
	if logger == nil {
		Init(nil)
		mu.RLock()
		logger = defaultLogger
		mu.RUnlock()
	}
	return logger
}

// NewModuleLogger 为模块创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// IsDebugMode 是否处于 debug 级别
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugMode
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
