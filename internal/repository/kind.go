package repository

import (
	"time"

	"github.com/d60-Lab/site-store/internal/model"
)

// kind 描述一种实体在 Redis 中的存储方式
type kind[T model.Entity] struct {
	name     string
	plural   string
	statuses []string
	initial  string
	codec    Codec[T]
	// transition 状态变更时需要额外写入或删除的字段
	transition func(status string, now time.Time) (set map[string]interface{}, del []string)
}

func (k kind[T]) validStatus(s string) bool {
	for _, v := range k.statuses {
		if v == s {
			return true
		}
	}
	return false
}

func messageKind() kind[*model.Message] {
	statuses := make([]string, len(model.MessageStatuses))
	for i, s := range model.MessageStatuses {
		statuses[i] = string(s)
	}
	return kind[*model.Message]{
		name:     "message",
		plural:   "messages",
		statuses: statuses,
		initial:  string(model.MessageUnread),
		codec:    messageCodec{},
		transition: func(string, time.Time) (map[string]interface{}, []string) {
			return map[string]interface{}{}, nil
		},
	}
}

func subscriberKind() kind[*model.Subscriber] {
	statuses := make([]string, len(model.SubscriberStatuses))
	for i, s := range model.SubscriberStatuses {
		statuses[i] = string(s)
	}
	return kind[*model.Subscriber]{
		name:     "subscriber",
		plural:   "subscribers",
		statuses: statuses,
		initial:  string(model.SubscriberActive),
		codec:    subscriberCodec{},
		transition: func(status string, now time.Time) (map[string]interface{}, []string) {
			if status == string(model.SubscriberUnsubscribed) {
				return map[string]interface{}{fieldUnsubscribedAt: encodeTime(now)}, nil
			}
			return map[string]interface{}{}, []string{fieldUnsubscribedAt}
		},
	}
}
