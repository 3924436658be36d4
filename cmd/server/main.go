// @title RAG Assistant API
// @version 1.0
// @description 基于检索增强生成的问答服务，支持多轮对话与流式输出
// @host localhost:8000
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rag-assistant/backend/internal/infrastructure/config"
	applog "github.com/rag-assistant/backend/internal/infrastructure/log"
	"github.com/rag-assistant/backend/internal/infrastructure/singleton"
	"github.com/rag-assistant/backend/internal/wire"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("ignoring .env: %v", err)
	}

	// 初始化日志系统
	applog.Init(nil)
	logger := applog.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration",
			"error", err,
		)
		os.Exit(1)
	}

	// 单例锁检查：尝试获取端口锁
	listener, err := singleton.CheckAndLock(cfg.Server.HTTPPort)
	if err != nil {
		logger.Error("Singleton check failed",
			"addr", cfg.Server.HTTPPort,
			"error", err,
		)
		os.Exit(1)
	}
	if listener == nil {
		logger.Info("Another instance is already running, exiting",
			"addr", cfg.Server.HTTPPort,
		)
		os.Exit(0)
	}
	// 实际监听由 HTTP 服务器负责
	_ = listener.Close()

	app, cleanup, err := wire.InitializeAll(cfg)
	if err != nil {
		logger.Error("Failed to initialize application",
			"error", err,
		)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Start(); err != nil {
		logger.Error("Failed to start application",
			"error", err,
		)
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down application...")
	if err := app.Stop(); err != nil {
		logger.Error("Error during application shutdown",
			"error", err,
		)
	}
	logger.Info("Application stopped")
}
