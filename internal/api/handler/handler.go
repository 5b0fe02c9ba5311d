package handler

import (
	"github.com/d60-Lab/site-store/internal/service"
)

// Handler HTTP 处理器集合
type Handler struct {
	msgService  service.MessageService
	subService  service.SubscriberService
	likeService service.LikeService
	ipSalt      string
}

func NewHandler(msgService service.MessageService, subService service.SubscriberService, likeService service.LikeService, ipSalt string) *Handler {
	return &Handler{msgService: msgService, subService: subService, likeService: likeService, ipSalt: ipSalt}
}

// deleteResult 删除接口返回体；记录已不存在时 success=false
type deleteResult struct {
	Success bool `json:"success"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}
