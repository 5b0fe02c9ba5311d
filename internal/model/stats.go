package model

// Stats 总数与各状态计数
type Stats struct {
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}

// DailyCount 单日新增数量，Date 为 UTC 日期 YYYY-MM-DD
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DetailedStats 计数 + 近 N 天按日趋势
type DetailedStats struct {
	Stats
	ByDay []DailyCount `json:"byDay"`
}

// Analytics 趋势派生指标
type Analytics struct {
	DetailedStats
	AveragePerDay float64            `json:"averagePerDay"`
	MostActiveDay *DailyCount        `json:"mostActiveDay"`
	GrowthRate    float64            `json:"growthRate"`
	Distribution  map[string]float64 `json:"distribution"`
}
