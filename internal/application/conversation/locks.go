package conversation

import "sync"

// SessionLocks 按会话 ID 互斥，引擎的读改写与删除共用同一把锁
// 无人持有的 key 会被回收
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionLocks 创建会话锁表
func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[string]*refLock)}
}

// Lock 阻塞直到拿到 id 对应的锁，返回解锁函数
func (l *SessionLocks) Lock(id string) (unlock func()) {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &refLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *SessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
