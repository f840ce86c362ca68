package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"datagov-console/internal/core/cache"
	"datagov-console/internal/domain"
	"datagov-console/internal/lifecycle"
	"datagov-console/internal/transport/http/middleware"
	"datagov-console/internal/transport/http/response"
)

const userCacheTTL = 30 * time.Second

type UserHandler struct {
	Engine *lifecycle.Engine
	Cache  *cache.Cache // 可为 nil（未配置 redis）
	Log    *zap.Logger
}

func NewUserHandler(engine *lifecycle.Engine, c *cache.Cache, log *zap.Logger) *UserHandler {
	return &UserHandler{Engine: engine, Cache: c, Log: log}
}

func userKey(id string) string { return "user:" + id }
func prefKey(id string) string { return "pref:" + id }

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var in lifecycle.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Msg(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.Engine.CreateUser(c.Request.Context(), in)
	if err != nil {
		response.Err(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GET /users 分页列表，软删用户默认排除
func (h *UserHandler) List(c *gin.Context) {
	page := atoiDefault(c.Query("page"), 1)
	limit := atoiDefault(c.Query("limit"), 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	users, total, err := h.Engine.ListUsers(c.Request.Context(), offset, limit, false, "")
	if err != nil {
		response.Err(c, err)
		return
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"pagination": gin.H{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalUsers":   total,
			"usersPerPage": limit,
			"hasNextPage":  int64(page) < totalPages,
			"hasPrevPage":  page > 1,
		},
	})
}

// GET /users/:userId
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("userId")
	ctx := c.Request.Context()

	load := func(ctx context.Context) (*domain.User, error) {
		return h.Engine.GetUser(ctx, id)
	}
	var u *domain.User
	var err error
	if h.Cache != nil {
		u, err = cache.GetOrLoadJSON[domain.User](h.Cache, ctx, userKey(id), userCacheTTL, load)
	} else {
		u, err = load(ctx)
	}
	if err != nil {
		response.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PUT /users/:userId
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("userId")
	var in lifecycle.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Msg(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.Engine.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		response.Err(c, err)
		return
	}
	h.invalidate(c.Request.Context(), userKey(id))
	c.JSON(http.StatusOK, u)
}

// DELETE /users/:userId 软删 + 帖子级联
func (h *UserHandler) SoftDelete(c *gin.Context) {
	id := c.Param("userId")
	if err := h.Engine.SoftDeleteUser(c.Request.Context(), id); err != nil {
		response.Err(c, err)
		return
	}
	h.invalidate(c.Request.Context(), userKey(id))
	middleware.CountDelete("soft")
	response.Msg(c, http.StatusOK, "user and related posts soft-deleted successfully")
}

// POST /users/:userId/purge 宽限期后硬删
func (h *UserHandler) HardDelete(c *gin.Context) {
	id := c.Param("userId")
	if err := h.Engine.HardDeleteUser(c.Request.Context(), id); err != nil {
		response.Err(c, err)
		return
	}
	h.invalidate(c.Request.Context(), userKey(id), prefKey(id))
	middleware.CountDelete("hard")
	response.Msg(c, http.StatusOK, "user, posts, and preferences permanently deleted")
}

func (h *UserHandler) invalidate(ctx context.Context, keys ...string) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx, keys...); err != nil {
		h.Log.Warn("cache invalidate failed", zap.Error(err))
	}
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
