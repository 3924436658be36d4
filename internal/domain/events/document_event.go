package events

import "time"

// DocumentEvent 文档入库、删除或投递
type DocumentEvent struct {
	EventType  EventType
	DocumentID string // dropped 事件中为空
	Filename   string
	// FilePath 文件完整路径
	FilePath   string
	ChunkCount int
	EventTime  time.Time
}

// Type 实现 Event 接口
func (e *DocumentEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *DocumentEvent) Timestamp() time.Time {
	return e.EventTime
}
