package conversation

import "errors"

var (
	// ErrSessionNotFound 会话不存在
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyQuestion 问题为空
	ErrEmptyQuestion = errors.New("question is required")
	// ErrPersistence 会话读写失败
	ErrPersistence = errors.New("session persistence failed")
)
