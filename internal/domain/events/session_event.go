package events

import "time"

// SessionEvent 会话被写入或删除
type SessionEvent struct {
	EventType EventType
	SessionID string
	Title     string
	// MessageCount 删除事件中为 0
	MessageCount int
	EventTime    time.Time
}

// Type 实现 Event 接口
func (e *SessionEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *SessionEvent) Timestamp() time.Time {
	return e.EventTime
}
