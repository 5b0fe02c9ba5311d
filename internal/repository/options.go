package repository

import "time"

// SearchScope 关键字搜索的作用范围
type SearchScope string

const (
	// SearchPage 先分页再在当前页内过滤，total 为未过滤的总数
	SearchPage SearchScope = "page"
	// SearchCollection 在整个状态范围内过滤后再分页，total 为命中数
	SearchCollection SearchScope = "collection"
)

const (
	DefaultPageSize   = 20
	MaxPageSize       = 100
	DefaultTrendDays  = 30
	DefaultMaxRetries = 16
	DefaultLikeCap    = 5
)

// Options 仓储公共配置
type Options struct {
	KeyPrefix   string
	OpTimeout   time.Duration
	SearchScope SearchScope
	TrendDays   int
	MaxRetries  int
	LikeCap     int64
	Now         func() time.Time
	// OnDrift 查询时发现索引里有 id 但 hash 缺失
	OnDrift func(kind, id string)
}

type Option func(*Options)

func WithKeyPrefix(p string) Option { return func(o *Options) { o.KeyPrefix = p } }

func WithOpTimeout(d time.Duration) Option { return func(o *Options) { o.OpTimeout = d } }

func WithSearchScope(s SearchScope) Option { return func(o *Options) { o.SearchScope = s } }

func WithTrendDays(n int) Option { return func(o *Options) { o.TrendDays = n } }

func WithMaxRetries(n int) Option { return func(o *Options) { o.MaxRetries = n } }

func WithLikeCap(n int64) Option { return func(o *Options) { o.LikeCap = n } }

func WithClock(now func() time.Time) Option { return func(o *Options) { o.Now = now } }

func WithDriftHandler(fn func(kind, id string)) Option { return func(o *Options) { o.OnDrift = fn } }

func buildOptions(opts []Option) Options {
	o := Options{
		SearchScope: SearchPage,
		TrendDays:   DefaultTrendDays,
		MaxRetries:  DefaultMaxRetries,
		LikeCap:     DefaultLikeCap,
		Now:         time.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.SearchScope != SearchCollection {
		o.SearchScope = SearchPage
	}
	if o.TrendDays <= 0 {
		o.TrendDays = DefaultTrendDays
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.LikeCap <= 0 {
		o.LikeCap = DefaultLikeCap
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
