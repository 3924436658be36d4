package watcher

import (
	"github.com/google/wire"

	"github.com/rag-assistant/backend/internal/domain/events"
)

// ProviderSet 事件与监听 ProviderSet
var ProviderSet = wire.NewSet(
	NewEventBus,
	wire.Bind(new(events.EventBus), new(*EventBus)),
	wire.Bind(new(events.Publisher), new(*EventBus)),
	NewInboxWatcher,
)
