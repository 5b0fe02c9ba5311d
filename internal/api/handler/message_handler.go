package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/site-store/internal/model"
	"github.com/d60-Lab/site-store/internal/service"
	"github.com/d60-Lab/site-store/pkg/response"
)

type submitMessageRequest struct {
	Email   string `json:"email" binding:"required"`
	Name    string `json:"name"`
	Message string `json:"message" binding:"required,max=5000"`
}

type submitMessageResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmitMessage 提交联系消息
// @Summary 提交联系表单
// @Tags 消息
// @Accept json
// @Produce json
// @Param request body submitMessageRequest true "消息内容"
// @Success 201 {object} response.Response{data=submitMessageResponse}
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/contact [post]
func (h *Handler) SubmitMessage(c *gin.Context) {
	var req submitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.msgService.Submit(c.Request.Context(), service.SubmitMessageInput{
		Email:   req.Email,
		Name:    req.Name,
		Message: req.Message,
		IPHash:  ActorHash(h.ipSalt, c.ClientIP()),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, submitMessageResponse{ID: msg.ID, Timestamp: msg.Timestamp})
}

// ListMessages 消息列表
// @Summary 消息列表（状态过滤、搜索、分页、排序）
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param status query string false "unread|read|replied|archived|all"
// @Param search query string false "关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param sort_by query string false "timestamp|email" default(timestamp)
// @Param sort_order query string false "asc|desc" default(desc)
// @Success 200 {object} response.Response{data=model.ListResult[model.Message]}
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/messages [get]
func (h *Handler) ListMessages(c *gin.Context) {
	var f model.ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.msgService.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// GetMessage 消息详情
// @Summary 消息详情
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param id path string true "消息ID"
// @Success 200 {object} response.Response{data=model.Message}
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/messages/{id} [get]
func (h *Handler) GetMessage(c *gin.Context) {
	msg, err := h.msgService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, msg)
}

// UpdateMessageStatus 修改消息状态
// @Summary 标记已读/已回复/归档
// @Tags 消息
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "消息ID"
// @Param request body statusRequest true "目标状态"
// @Success 200 {object} response.Response{data=model.Message}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/messages/{id}/status [patch]
func (h *Handler) UpdateMessageStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.msgService.UpdateStatus(c.Request.Context(), c.Param("id"), model.MessageStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, msg)
}

// DeleteMessage 删除消息
// @Summary 删除消息
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param id path string true "消息ID"
// @Success 200 {object} response.Response{data=deleteResult}
// @Router /api/v1/admin/messages/{id} [delete]
func (h *Handler) DeleteMessage(c *gin.Context) {
	ok, err := h.msgService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, deleteResult{Success: ok})
}

// MessageStats 各状态计数
// @Summary 消息计数
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.Stats}
// @Router /api/v1/admin/messages/stats [get]
func (h *Handler) MessageStats(c *gin.Context) {
	st, err := h.msgService.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, st)
}

// MessageDetailedStats 计数 + 近 30 天按日趋势
// @Summary 消息趋势
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.DetailedStats}
// @Router /api/v1/admin/messages/stats/detailed [get]
func (h *Handler) MessageDetailedStats(c *gin.Context) {
	st, err := h.msgService.DetailedStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, st)
}

// MessageAnalytics 派生指标
// @Summary 消息分析（日均、最活跃日、增长率、分布）
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.Analytics}
// @Router /api/v1/admin/messages/analytics [get]
func (h *Handler) MessageAnalytics(c *gin.Context) {
	a, err := h.msgService.Analytics(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, a)
}
