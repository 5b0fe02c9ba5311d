package model

import "time"

// SubscriberStatus 订阅状态
type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

var SubscriberStatuses = []SubscriberStatus{SubscriberActive, SubscriberUnsubscribed}

func (s SubscriberStatus) Valid() bool {
	return s == SubscriberActive || s == SubscriberUnsubscribed
}

// Subscriber 邮件订阅者
type Subscriber struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	Name           string           `json:"name"`
	Status         SubscriberStatus `json:"status"`
	Timestamp      time.Time        `json:"timestamp"`
	UnsubscribedAt *time.Time       `json:"unsubscribedAt,omitempty"`
	IPHash         string           `json:"ipHash,omitempty"`
}

func (s *Subscriber) GetID() string           { return s.ID }
func (s *Subscriber) GetEmail() string        { return s.Email }
func (s *Subscriber) GetStatus() string       { return string(s.Status) }
func (s *Subscriber) GetTimestamp() time.Time { return s.Timestamp }

func (s *Subscriber) SearchText() []string { return []string{s.Email, s.Name} }

func (s *Subscriber) Stamp(id string, ts time.Time, status string) {
	s.ID = id
	s.Timestamp = ts
	s.Status = SubscriberStatus(status)
}
