package notification

// Pusher 推送能力，由传输层实现
type Pusher interface {
	Push(n *Notification) error
}
