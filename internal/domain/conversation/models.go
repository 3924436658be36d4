// Package conversation 会话与消息领域模型
package conversation

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// TitleMaxRunes 标题最多保留的字符数（按 Unicode 码点计）
const TitleMaxRunes = 30

// Role 消息角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source 检索得到的引用片段
type Source struct {
	DocumentID string  `json:"document_id"`
	FilePath   string  `json:"file_path,omitempty"`
	Title      string  `json:"title,omitempty"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// Message 会话中的一条消息
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources"`
	Timestamp time.Time `json:"timestamp"`
}

// Session 会话，消息只追加不修改
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionSummary 会话列表项
type SessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidSessionID 会话 ID 会被用作文件名，只接受字母、数字、下划线和连字符
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// DeriveTitle 由首个问题生成标题，超过 30 个字符截断并追加 "..."
func DeriveTitle(question string) string {
	if utf8.RuneCountInString(question) <= TitleMaxRunes {
		return question
	}
	return string([]rune(question)[:TitleMaxRunes]) + "..."
}

// NewSession 创建空会话
func NewSession(id, firstQuestion string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Title:     DeriveTitle(firstQuestion),
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendUser 追加用户消息
func (s *Session) AppendUser(content string, at time.Time) {
	s.Messages = append(s.Messages, Message{
		Role:      RoleUser,
		Content:   content,
		Sources:   []Source{},
		Timestamp: at,
	})
}

// AppendAssistant 追加助手消息
func (s *Session) AppendAssistant(content string, sources []Source, at time.Time) {
	if sources == nil {
		sources = []Source{}
	}
	s.Messages = append(s.Messages, Message{
		Role:      RoleAssistant,
		Content:   content,
		Sources:   sources,
		Timestamp: at,
	})
}

// Touch 刷新更新时间，保证不早于创建时间且不回退
func (s *Session) Touch(now time.Time) {
	if now.Before(s.UpdatedAt) {
		return
	}
	if now.Before(s.CreatedAt) {
		now = s.CreatedAt
	}
	s.UpdatedAt = now
}

// Summary 生成列表项
func (s *Session) Summary() *SessionSummary {
	return &SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		MessageCount: len(s.Messages),
	}
}

// Normalize 补全从旧文件读出的 nil 切片，保证序列化为 []
func (s *Session) Normalize() {
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	for i := range s.Messages {
		if s.Messages[i].Sources == nil {
			s.Messages[i].Sources = []Source{}
		}
	}
}
