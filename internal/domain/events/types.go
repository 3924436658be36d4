// Package events 领域事件类型和总线接口
package events

import "time"

// EventType 事件类型标识
type EventType string

// 会话事件
const (
	SessionUpdated EventType = "session.updated"
	SessionDeleted EventType = "session.deleted"
)

// 文档事件
const (
	DocumentIngested EventType = "document.ingested"
	DocumentDeleted  EventType = "document.deleted"
	// DocumentDropped 收件箱目录出现新文件
	DocumentDropped EventType = "document.dropped"
)

// Event 领域事件
type Event interface {
	Type() EventType
	Timestamp() time.Time
}
