package document

import "github.com/google/wire"

// ProviderSet 文档服务 ProviderSet
var ProviderSet = wire.NewSet(NewService)
