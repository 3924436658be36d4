package config

import "github.com/google/wire"

// ProviderSet 配置 ProviderSet
var ProviderSet = wire.NewSet(
	NewServerConfig,
	NewStorageConfig,
	NewProviderConfig,
	NewQueryConfig,
	NewConversationConfig,
	NewDocumentsConfig,
	NewWebSocketConfig,
	NewDiscoveryConfig,
)
