package application

import (
	"github.com/google/wire"

	"github.com/rag-assistant/backend/internal/application/conversation"
	"github.com/rag-assistant/backend/internal/application/document"
	"github.com/rag-assistant/backend/internal/application/notification"
	"github.com/rag-assistant/backend/internal/application/query"
	"github.com/rag-assistant/backend/internal/application/settings"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	conversation.ProviderSet,
	query.ProviderSet,
	document.ProviderSet,
	settings.ProviderSet,
	notification.ProviderSet,
)
