//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/rag-assistant/backend/internal/application"
	"github.com/rag-assistant/backend/internal/infrastructure"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP），cleanup 关闭数据库
func InitializeAll(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructure.ProviderSet,
		application.ProviderSet,
		interfaces.ProviderSet,
		NewApp,
	)
	return nil, nil, nil
}
