package model

// 排序字段
const (
	SortByTimestamp = "timestamp"
	SortByEmail     = "email"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilter 列表查询参数
type ListFilter struct {
	Status    string `form:"status"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// ListResult 分页结果
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}
