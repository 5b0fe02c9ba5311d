package model

// LikeResult 点赞计数；Limited 表示该访客已达上限，本次未计数
type LikeResult struct {
	Slug       string `json:"slug"`
	Count      int64  `json:"count"`
	ActorCount int64  `json:"actorCount"`
	Cap        int64  `json:"cap"`
	Limited    bool   `json:"limited"`
}
