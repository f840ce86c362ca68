package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"datagov-console/internal/core/auth"
	"datagov-console/internal/core/server"
	"datagov-console/internal/transport/http/handler"
	mdw "datagov-console/internal/transport/http/middleware"
)

// NewAdminEngine 管理台：登录换 token，其余接口统一要求 admin 角色
func NewAdminEngine(l *zap.Logger, adminH *handler.AdminHandler, jwter *auth.JWTer) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(20, 40),
		mdw.MaxBodyBytes(1<<20),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.POST("/auth/login", adminH.Login)

	authed := admin.Group("")
	authed.Use(mdw.AuthJWT(jwter, "admin"))
	authed.GET("/users", adminH.ListUsers)
	authed.POST("/users/:userId/purge", adminH.Purge)

	return r
}
