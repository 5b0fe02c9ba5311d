package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/site-store/pkg/response"
)

// GetLikes 查询点赞数
// @Summary 文章点赞数（含当前访客已点次数）
// @Tags 点赞
// @Produce json
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response{data=model.LikeResult}
// @Router /api/v1/likes/{slug} [get]
func (h *Handler) GetLikes(c *gin.Context) {
	res, err := h.likeService.Count(c.Request.Context(), c.Param("slug"), ActorHash(h.ipSalt, c.ClientIP()))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// Like 点赞
// @Summary 点赞，每个访客每篇最多计数 cap 次
// @Tags 点赞
// @Produce json
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response{data=model.LikeResult}
// @Failure 429 {object} response.Response{data=model.LikeResult}
// @Router /api/v1/likes/{slug} [post]
func (h *Handler) Like(c *gin.Context) {
	res, err := h.likeService.Like(c.Request.Context(), c.Param("slug"), ActorHash(h.ipSalt, c.ClientIP()))
	if err != nil {
		fail(c, err)
		return
	}
	if res.Limited {
		response.TooManyRequests(c, "like limit reached", res)
		return
	}
	response.Success(c, res)
}
