package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"datagov-console/internal/core/auth"
	"datagov-console/internal/domain"
	"datagov-console/internal/lifecycle"
	"datagov-console/internal/transport/http/response"
	"datagov-console/pkg/utils"
)

// AdminHandler 管理端：登录、含软删的用户列表、清除
type AdminHandler struct {
	Engine       *lifecycle.Engine
	JWTer        *auth.JWTer
	AdminUser    string
	AdminPwdHash string // bcrypt
	Log          *zap.Logger
}

func NewAdminHandler(engine *lifecycle.Engine, jwter *auth.JWTer, adminUser, adminPwdHash string, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Engine: engine, JWTer: jwter, AdminUser: adminUser, AdminPwdHash: adminPwdHash, Log: log}
}

// POST /auth/login 管理员凭据来自配置，不落库
func (h *AdminHandler) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Msg(c, http.StatusBadRequest, err.Error())
		return
	}
	if in.Username != h.AdminUser || !utils.CheckPassword(in.Password, h.AdminPwdHash) {
		response.Msg(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	tok, err := h.JWTer.Issue(in.Username, domain.RoleAdmin)
	if err != nil {
		h.Log.Error("issue token failed", zap.Error(err))
		response.Msg(c, http.StatusInternalServerError, "server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// GET /users 管理端列表，可含软删、可模糊搜
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var in struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`
		WithDeleted bool   `form:"with_deleted"`
	}
	if err := c.ShouldBindQuery(&in); err != nil {
		response.Msg(c, http.StatusBadRequest, err.Error())
		return
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	users, total, err := h.Engine.ListUsers(c.Request.Context(), in.Offset, in.Limit, in.WithDeleted, in.Q)
	if err != nil {
		response.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "items": users})
}

// POST /users/:userId/purge 与 api 端同一引擎操作
func (h *AdminHandler) Purge(c *gin.Context) {
	id := c.Param("userId")
	if err := h.Engine.HardDeleteUser(c.Request.Context(), id); err != nil {
		response.Err(c, err)
		return
	}
	response.Msg(c, http.StatusOK, "user, posts, and preferences permanently deleted")
}
