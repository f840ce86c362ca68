package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datagov-console/internal/transport/http/response"
)

func SimpleRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Message{Message: "server error"})
			}
		}()
		c.Next()
	}
}
