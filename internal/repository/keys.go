package repository

import (
	"strings"
	"time"
)

// keyspace 单个实体种类的 key 规则
//
//	<prefix>message:<id>               hash
//	<prefix>messages:all               zset, score = 创建时间毫秒
//	<prefix>messages:status:<status>   set
type keyspace struct {
	prefix   string
	singular string
	plural   string
}

func newKeyspace(prefix, singular, plural string) keyspace {
	return keyspace{prefix: normalizePrefix(prefix), singular: singular, plural: plural}
}

func (k keyspace) record(id string) string { return k.prefix + k.singular + ":" + id }

func (k keyspace) all() string { return k.prefix + k.plural + ":all" }

func (k keyspace) status(status string) string { return k.prefix + k.plural + ":status:" + status }

func likeKey(prefix, slug string) string { return normalizePrefix(prefix) + "likes:" + slug }

func likeActorKey(prefix, slug, actor string) string {
	return normalizePrefix(prefix) + "likes:" + slug + ":" + actor
}

func normalizePrefix(p string) string {
	p = strings.TrimSuffix(p, ":")
	if p == "" {
		return ""
	}
	return p + ":"
}

func score(ts time.Time) float64 { return float64(ts.UnixMilli()) }
