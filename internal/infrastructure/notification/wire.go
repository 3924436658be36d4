package notification

import (
	"github.com/google/wire"

	"github.com/rag-assistant/backend/internal/application/notification"
)

// ProviderSet 通知基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	NewWebSocketPusher,
	wire.Bind(new(notification.Pusher), new(*WebSocketPusher)),
)
