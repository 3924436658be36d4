package conversation

// SessionRepository 会话持久化
// 实现不做缓存，每次调用都读写底层存储
type SessionRepository interface {
	// Get 不存在或 ID 非法时返回 NotFound
	Get(id string) (LookupResult, error)
	// Save 整体覆盖写入
	Save(session *Session) error
	// ListSummaries 按 UpdatedAt 降序
	ListSummaries() ([]*SessionSummary, error)
	// Delete 返回是否确实删除了记录
	Delete(id string) (bool, error)
}
