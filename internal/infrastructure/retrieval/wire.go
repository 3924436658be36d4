package retrieval

import (
	"github.com/google/wire"

	domain "github.com/rag-assistant/backend/internal/domain/retrieval"
)

// ProviderSet 检索基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	NewSettingsStore,
	NewSwitchableProvider,
	wire.Bind(new(domain.Provider), new(*SwitchableProvider)),
)
