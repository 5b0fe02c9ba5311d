package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func write(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: msg, Data: data})
}

func Success(c *gin.Context, data interface{}) { write(c, http.StatusOK, "success", data) }

func Created(c *gin.Context, data interface{}) { write(c, http.StatusCreated, "created", data) }

func BadRequest(c *gin.Context, msg string) { write(c, http.StatusBadRequest, msg, nil) }

func Unauthorized(c *gin.Context, msg string) { write(c, http.StatusUnauthorized, msg, nil) }

func NotFound(c *gin.Context, msg string) { write(c, http.StatusNotFound, msg, nil) }

// TooManyRequests data 可携带当前计数等结构化结果
func TooManyRequests(c *gin.Context, msg string, data interface{}) {
	write(c, http.StatusTooManyRequests, msg, data)
}

func ServiceUnavailable(c *gin.Context, msg string) {
	write(c, http.StatusServiceUnavailable, msg, nil)
}

func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	write(c, http.StatusInternalServerError, "internal error", nil)
}
