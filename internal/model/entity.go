package model

import (
	"strings"
	"time"
)

// DefaultName 表单未填写姓名时的占位
const DefaultName = "Anonymous"

// Entity 带索引存储的记录（Message / Subscriber）
type Entity interface {
	GetID() string
	GetEmail() string
	GetStatus() string
	GetTimestamp() time.Time
	// SearchText 参与关键字搜索的字段
	SearchText() []string
	// Stamp 由存储层在创建时写入 id、时间戳与初始状态
	Stamp(id string, ts time.Time, status string)
}

// Matches 大小写不敏感的子串匹配
func Matches(e Entity, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range e.SearchText() {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
