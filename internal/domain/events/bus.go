package events

// Handler 事件处理器
type Handler interface {
	// HandleEvent 返回的 error 只记录日志，不重试
	HandleEvent(event Event) error
}

// HandlerFunc 函数适配器
type HandlerFunc func(event Event) error

// HandleEvent 实现 Handler 接口
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}

// Publisher 只需要发布能力的组件依赖此接口
type Publisher interface {
	Publish(event Event)
}

// EventBus 事件总线
type EventBus interface {
	Publisher

	// Subscribe 订阅一种事件，返回取消订阅函数
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())

	// SubscribeMultiple 订阅多种事件
	SubscribeMultiple(eventTypes []EventType, handler Handler) (unsubscribe func())

	// Close 停止接收新事件，等待已发布事件处理完成
	Close()
}
