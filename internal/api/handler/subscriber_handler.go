package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/site-store/internal/model"
	"github.com/d60-Lab/site-store/internal/service"
	"github.com/d60-Lab/site-store/pkg/response"
)

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

type subscribeResponse struct {
	ID     string                 `json:"id"`
	Status model.SubscriberStatus `json:"status"`
}

// Subscribe 订阅
// @Summary 订阅邮件
// @Tags 订阅
// @Accept json
// @Produce json
// @Param request body subscribeRequest true "订阅信息"
// @Success 201 {object} response.Response{data=subscribeResponse}
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sub, err := h.subService.Subscribe(c.Request.Context(), service.SubscribeInput{
		Email:  req.Email,
		Name:   req.Name,
		IPHash: ActorHash(h.ipSalt, c.ClientIP()),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, subscribeResponse{ID: sub.ID, Status: sub.Status})
}

// Unsubscribe 退订
// @Summary 退订
// @Tags 订阅
// @Produce json
// @Param id path string true "订阅ID"
// @Success 200 {object} response.Response{data=subscribeResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/unsubscribe/{id} [post]
func (h *Handler) Unsubscribe(c *gin.Context) {
	sub, err := h.subService.Unsubscribe(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, subscribeResponse{ID: sub.ID, Status: sub.Status})
}

// ListSubscribers 订阅者列表
// @Summary 订阅者列表
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param status query string false "active|unsubscribed|all"
// @Param search query string false "关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param sort_by query string false "timestamp|email" default(timestamp)
// @Param sort_order query string false "asc|desc" default(desc)
// @Success 200 {object} response.Response{data=model.ListResult[model.Subscriber]}
// @Router /api/v1/admin/subscribers [get]
func (h *Handler) ListSubscribers(c *gin.Context) {
	var f model.ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.subService.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// GetSubscriber 订阅者详情
// @Summary 订阅者详情
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param id path string true "订阅ID"
// @Success 200 {object} response.Response{data=model.Subscriber}
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/subscribers/{id} [get]
func (h *Handler) GetSubscriber(c *gin.Context) {
	sub, err := h.subService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, sub)
}

// UpdateSubscriberStatus 修改订阅状态
// @Summary 修改订阅状态
// @Tags 订阅
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "订阅ID"
// @Param request body statusRequest true "目标状态"
// @Success 200 {object} response.Response{data=model.Subscriber}
// @Router /api/v1/admin/subscribers/{id}/status [patch]
func (h *Handler) UpdateSubscriberStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sub, err := h.subService.UpdateStatus(c.Request.Context(), c.Param("id"), model.SubscriberStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, sub)
}

// DeleteSubscriber 删除订阅者
// @Summary 删除订阅者
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param id path string true "订阅ID"
// @Success 200 {object} response.Response{data=deleteResult}
// @Router /api/v1/admin/subscribers/{id} [delete]
func (h *Handler) DeleteSubscriber(c *gin.Context) {
	ok, err := h.subService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, deleteResult{Success: ok})
}

// SubscriberStats 订阅计数
// @Summary 订阅计数
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.Stats}
// @Router /api/v1/admin/subscribers/stats [get]
func (h *Handler) SubscriberStats(c *gin.Context) {
	st, err := h.subService.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, st)
}

// SubscriberDetailedStats 订阅趋势
// @Summary 订阅趋势
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.DetailedStats}
// @Router /api/v1/admin/subscribers/stats/detailed [get]
func (h *Handler) SubscriberDetailedStats(c *gin.Context) {
	st, err := h.subService.DetailedStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, st)
}

// SubscriberAnalytics 订阅分析
// @Summary 订阅分析
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.Analytics}
// @Router /api/v1/admin/subscribers/analytics [get]
func (h *Handler) SubscriberAnalytics(c *gin.Context) {
	a, err := h.subService.Analytics(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, a)
}
