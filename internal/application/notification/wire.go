package notification

import "github.com/google/wire"

// ProviderSet 通知应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewService,
)
