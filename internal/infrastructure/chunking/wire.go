package chunking

import (
	"github.com/google/wire"

	"github.com/rag-assistant/backend/internal/domain/document"
)

// ProviderSet 分块 ProviderSet
var ProviderSet = wire.NewSet(
	NewTokenChunker,
	wire.Bind(new(document.Chunker), new(*TokenChunker)),
)
