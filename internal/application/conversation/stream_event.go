package conversation

import (
	"encoding/json"

	"github.com/rag-assistant/backend/internal/domain/conversation"
)

// StreamEventType 流式事件类型
type StreamEventType string

const (
	StreamMetadata StreamEventType = "metadata"
	StreamContent  StreamEventType = "content"
	StreamEnd      StreamEventType = "end"
	StreamError    StreamEventType = "error"
)

// StreamEvent 流式输出的一个事件
// 各类型只序列化自己的字段
type StreamEvent struct {
	Type      StreamEventType
	SessionID string
	Sources   []conversation.Source
	Content   string
	Error     string
}

// Terminal 是否为结束事件
func (e StreamEvent) Terminal() bool {
	return e.Type == StreamEnd || e.Type == StreamError
}

// MarshalJSON 按事件类型输出
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case StreamMetadata:
		sources := e.Sources
		if sources == nil {
			sources = []conversation.Source{}
		}
		return json.Marshal(struct {
			Type      StreamEventType       `json:"type"`
			SessionID string                `json:"session_id"`
			Sources   []conversation.Source `json:"sources"`
		}{e.Type, e.SessionID, sources})
	case StreamContent:
		return json.Marshal(struct {
			Type    StreamEventType `json:"type"`
			Content string          `json:"content"`
		}{e.Type, e.Content})
	case StreamEnd:
		return json.Marshal(struct {
			Type      StreamEventType `json:"type"`
			SessionID string          `json:"session_id"`
		}{e.Type, e.SessionID})
	default:
		return json.Marshal(struct {
			Type  StreamEventType `json:"type"`
			Error string          `json:"error"`
		}{StreamError, e.Error})
	}
}

func metadataEvent(sessionID string, sources []conversation.Source) StreamEvent {
	return StreamEvent{Type: StreamMetadata, SessionID: sessionID, Sources: sources}
}

func contentEvent(fragment string) StreamEvent {
	return StreamEvent{Type: StreamContent, Content: fragment}
}

func endEvent(sessionID string) StreamEvent {
	return StreamEvent{Type: StreamEnd, SessionID: sessionID}
}

func errorEvent(err error) StreamEvent {
	return StreamEvent{Type: StreamError, Error: err.Error()}
}
