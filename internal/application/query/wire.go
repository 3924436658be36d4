package query

import "github.com/google/wire"

// ProviderSet 问答服务 ProviderSet
var ProviderSet = wire.NewSet(NewService)
