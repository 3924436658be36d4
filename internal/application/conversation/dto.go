package conversation

import (
	"github.com/rag-assistant/backend/internal/domain/conversation"
)

// TurnResult 一轮对话的结果
type TurnResult struct {
	Answer    string                `json:"answer"`
	SessionID string                `json:"session_id"`
	Sources   []conversation.Source `json:"sources"`
	Metadata  map[string]any        `json:"metadata"`
}
