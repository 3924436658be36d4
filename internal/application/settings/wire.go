package settings

import "github.com/google/wire"

// ProviderSet provider 配置服务 ProviderSet
var ProviderSet = wire.NewSet(NewService)
