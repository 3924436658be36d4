package conversation

import "github.com/google/wire"

// ProviderSet 对话应用服务 ProviderSet
var ProviderSet = wire.NewSet(
	NewSessionLocks,
	NewEngine,
	NewEmitter,
	NewSessionService,
)
