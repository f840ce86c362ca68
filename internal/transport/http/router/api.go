package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"datagov-console/internal/transport/http/handler"
	mdw "datagov-console/internal/transport/http/middleware"
)

// NewAPIEngine 公共 API 面（无鉴权，治理台前端直连）
func NewAPIEngine(l *zap.Logger, users *handler.UserHandler, prefs *handler.PreferenceHandler, posts *handler.PostHandler) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")

	api.POST("/users", users.Create)
	api.GET("/users", users.List)
	api.GET("/users/:userId", users.Get)
	api.PUT("/users/:userId", users.Update)
	api.DELETE("/users/:userId", users.SoftDelete)
	api.POST("/users/:userId/purge", users.HardDelete)

	api.PUT("/users/:userId/preferences", prefs.Upsert)
	api.GET("/users/:userId/preferences", prefs.Get)

	api.POST("/users/:userId/posts", posts.Create)
	api.GET("/users/:userId/posts", posts.ListByUser)
	api.DELETE("/posts/:postId", posts.SoftDelete)

	return r
}
