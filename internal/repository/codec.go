package repository

import (
	"fmt"
	"time"

	"github.com/d60-Lab/site-store/internal/model"
)

// Codec 实体与 hash 字段之间的编解码
type Codec[T model.Entity] interface {
	Encode(e T) map[string]interface{}
	Decode(fields map[string]string) (T, error)
}

const (
	fieldID             = "id"
	fieldEmail          = "email"
	fieldName           = "name"
	fieldMessage        = "message"
	fieldStatus         = "status"
	fieldTimestamp      = "timestamp"
	fieldIPHash         = "ipHash"
	fieldUnsubscribedAt = "unsubscribedAt"
)

func encodeTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func decodeTime(fields map[string]string, key string) (time.Time, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("%w: missing %s", ErrCorruptRecord, key)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, key, err)
	}
	return t.UTC(), nil
}

// checkHeader 校验公共字段，空 map 视为记录不存在
func checkHeader(fields map[string]string) error {
	if len(fields) == 0 {
		return ErrNotFound
	}
	if fields[fieldID] == "" {
		return fmt.Errorf("%w: missing %s", ErrCorruptRecord, fieldID)
	}
	return nil
}

func putOptional(m map[string]interface{}, key, val string) {
	if val != "" {
		m[key] = val
	}
}

type messageCodec struct{}

func (messageCodec) Encode(m *model.Message) map[string]interface{} {
	out := map[string]interface{}{
		fieldID:        m.ID,
		fieldEmail:     m.Email,
		fieldMessage:   m.Message,
		fieldStatus:    string(m.Status),
		fieldTimestamp: encodeTime(m.Timestamp),
	}
	putOptional(out, fieldName, m.Name)
	putOptional(out, fieldIPHash, m.IPHash)
	return out
}

func (messageCodec) Decode(fields map[string]string) (*model.Message, error) {
	if err := checkHeader(fields); err != nil {
		return nil, err
	}
	ts, err := decodeTime(fields, fieldTimestamp)
	if err != nil {
		return nil, err
	}
	return &model.Message{
		ID:        fields[fieldID],
		Email:     fields[fieldEmail],
		Name:      fields[fieldName],
		Message:   fields[fieldMessage],
		Status:    model.MessageStatus(fields[fieldStatus]),
		Timestamp: ts,
		IPHash:    fields[fieldIPHash],
	}, nil
}

type subscriberCodec struct{}

func (subscriberCodec) Encode(s *model.Subscriber) map[string]interface{} {
	out := map[string]interface{}{
		fieldID:        s.ID,
		fieldEmail:     s.Email,
		fieldStatus:    string(s.Status),
		fieldTimestamp: encodeTime(s.Timestamp),
	}
	putOptional(out, fieldName, s.Name)
	putOptional(out, fieldIPHash, s.IPHash)
	if s.UnsubscribedAt != nil {
		out[fieldUnsubscribedAt] = encodeTime(*s.UnsubscribedAt)
	}
	return out
}

func (subscriberCodec) Decode(fields map[string]string) (*model.Subscriber, error) {
	if err := checkHeader(fields); err != nil {
		return nil, err
	}
	ts, err := decodeTime(fields, fieldTimestamp)
	if err != nil {
		return nil, err
	}
	sub := &model.Subscriber{
		ID:        fields[fieldID],
		Email:     fields[fieldEmail],
		Name:      fields[fieldName],
		Status:    model.SubscriberStatus(fields[fieldStatus]),
		Timestamp: ts,
		IPHash:    fields[fieldIPHash],
	}
	if _, ok := fields[fieldUnsubscribedAt]; ok {
		at, err := decodeTime(fields, fieldUnsubscribedAt)
		if err != nil {
			return nil, err
		}
		sub.UnsubscribedAt = &at
	}
	return sub, nil
}
