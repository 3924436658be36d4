package storage

import (
	"github.com/google/wire"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/document"
)

// ProviderSet 存储层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,
	NewSessionStore,
	wire.Bind(new(conversation.SessionRepository), new(*SessionStore)),
	NewDocumentRepository,
	wire.Bind(new(document.Repository), new(*DocumentRepository)),
	NewFileBlobStore,
	wire.Bind(new(document.BlobStore), new(*FileBlobStore)),
)
