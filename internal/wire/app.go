package wire

import (
	"log/slog"

	appDocument "github.com/rag-assistant/backend/internal/application/document"
	appNotification "github.com/rag-assistant/backend/internal/application/notification"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/discovery"
	applog "github.com/rag-assistant/backend/internal/infrastructure/log"
	"github.com/rag-assistant/backend/internal/infrastructure/watcher"
	"github.com/rag-assistant/backend/internal/infrastructure/websocket"
	"github.com/rag-assistant/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer    *interfaces.HTTPServer
	wsHub         *websocket.Hub
	notifications *appNotification.Service
	documents     *appDocument.Service
	inbox         *watcher.InboxWatcher
	advertiser    *discovery.Advertiser
	eventBus      *watcher.EventBus
	inboxEnabled  bool
	logger        *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	wsHub *websocket.Hub,
	notifications *appNotification.Service,
	documents *appDocument.Service,
	inbox *watcher.InboxWatcher,
	advertiser *discovery.Advertiser,
	eventBus *watcher.EventBus,
	docs *config.DocumentsConfig,
) *App {
	return &App{
		HTTPServer:    httpServer,
		wsHub:         wsHub,
		notifications: notifications,
		documents:     documents,
		inbox:         inbox,
		advertiser:    advertiser,
		eventBus:      eventBus,
		inboxEnabled:  docs.InboxEnabled,
		logger:        applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting RAG assistant backend")

	a.wsHub.Start()
	a.notifications.Start()
	a.documents.Start()

	if a.inboxEnabled {
		if err := a.inbox.Start(); err != nil {
			a.logger.Error("Failed to start inbox watcher",
				"dir", a.inbox.Dir(),
				"error", err,
			)
		}
	}

	go func() {
		if err := a.HTTPServer.Start(); err != nil {
			a.logger.Error("HTTP server exited",
				"error", err,
			)
		}
	}()

	// 广播失败不影响本机服务
	if err := a.advertiser.Start(); err != nil {
		a.logger.Warn("Failed to start mDNS advertiser",
			"error", err,
		)
	}

	a.logger.Info("RAG assistant backend started")
	return nil
}

// Stop 停止所有服务，先停入口再排空事件
func (a *App) Stop() error {
	a.logger.Info("Stopping RAG assistant backend")

	a.advertiser.Stop()

	var stopErr error
	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		stopErr = err
	}

	a.inbox.Stop()
	a.documents.Stop()
	a.notifications.Stop()
	a.eventBus.Close()
	a.wsHub.Stop()

	a.logger.Info("RAG assistant backend stopped")
	return stopErr
}
