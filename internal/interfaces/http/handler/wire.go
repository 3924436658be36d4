package handler

import "github.com/google/wire"

// ProviderSet Handler ProviderSet
var ProviderSet = wire.NewSet(
	NewConversationHandler,
	NewSessionHandler,
	NewQueryHandler,
	NewDocumentHandler,
	NewProviderHandler,
	NewWebSocketHandler,
)
