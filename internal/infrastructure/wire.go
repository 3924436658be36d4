package infrastructure

import (
	"github.com/google/wire"

	"github.com/rag-assistant/backend/internal/infrastructure/chunking"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/discovery"
	"github.com/rag-assistant/backend/internal/infrastructure/notification"
	"github.com/rag-assistant/backend/internal/infrastructure/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/storage"
	"github.com/rag-assistant/backend/internal/infrastructure/watcher"
	"github.com/rag-assistant/backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	chunking.ProviderSet,
	retrieval.ProviderSet,
	watcher.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	discovery.ProviderSet,
)
