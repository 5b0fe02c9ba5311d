package model

import "time"

// MessageStatus 联系表单消息状态
type MessageStatus string

const (
	MessageUnread   MessageStatus = "unread"
	MessageRead     MessageStatus = "read"
	MessageReplied  MessageStatus = "replied"
	MessageArchived MessageStatus = "archived"
)

// MessageStatuses 全部消息状态，顺序即统计输出顺序
var MessageStatuses = []MessageStatus{MessageUnread, MessageRead, MessageReplied, MessageArchived}

// Valid 判断是否为已知状态
func (s MessageStatus) Valid() bool {
	for _, v := range MessageStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Message 联系表单提交的消息
type Message struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Message   string        `json:"message"`
	Status    MessageStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	IPHash    string        `json:"ipHash,omitempty"`
}

func (m *Message) GetID() string           { return m.ID }
func (m *Message) GetEmail() string        { return m.Email }
func (m *Message) GetStatus() string       { return string(m.Status) }
func (m *Message) GetTimestamp() time.Time { return m.Timestamp }

func (m *Message) SearchText() []string { return []string{m.Email, m.Name, m.Message} }

func (m *Message) Stamp(id string, ts time.Time, status string) {
	m.ID = id
	m.Timestamp = ts
	m.Status = MessageStatus(status)
}
