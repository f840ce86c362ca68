package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"datagov-console/internal/domain"
)

// Message {message: string} 形式的响应体
type Message struct {
	Message string `json:"message"`
}

func Msg(c *gin.Context, status int, message string) {
	c.JSON(status, Message{Message: message})
}

// Err 按错误分类映射状态码；底层存储细节不外漏，只给 message
func Err(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		Msg(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyDeleted):
		Msg(c, http.StatusBadRequest, "already deleted")
	case errors.Is(err, domain.ErrNotSoftDeleted):
		Msg(c, http.StatusBadRequest, "user must be soft deleted first")
	case errors.Is(err, domain.ErrGracePeriodActive):
		Msg(c, http.StatusForbidden, "user cannot be permanently deleted before 24 hours of soft deletion")
	case errors.Is(err, domain.ErrConflict):
		Msg(c, http.StatusConflict, "already exists")
	case errors.As(err, &vErr):
		Msg(c, http.StatusBadRequest, vErr.Cause)
	default:
		_ = c.Error(err)
		Msg(c, http.StatusInternalServerError, "server error")
	}
}
