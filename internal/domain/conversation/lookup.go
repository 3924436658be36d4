package conversation

// LookupResult 按 ID 查找会话的结果，不存在不是错误
type LookupResult struct {
	session *Session
}

// Found 查找命中
func Found(s *Session) LookupResult {
	return LookupResult{session: s}
}

// NotFound 查找未命中
func NotFound() LookupResult {
	return LookupResult{}
}

// Session 返回命中的会话
func (r LookupResult) Session() (*Session, bool) {
	return r.session, r.session != nil
}
