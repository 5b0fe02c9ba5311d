package handler

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/site-store/internal/repository"
	"github.com/d60-Lab/site-store/internal/service"
	"github.com/d60-Lab/site-store/pkg/logger"
	"github.com/d60-Lab/site-store/pkg/response"
)

// fail 按错误类型映射 HTTP 状态
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, repository.ErrInvalidStatus), errors.Is(err, service.ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrUnavailable), errors.Is(err, repository.ErrContention):
		logger.Warn("store unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		response.ServiceUnavailable(c, "store unavailable, retry later")
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		sentry.CaptureException(err)
		response.InternalError(c, err)
	}
}
