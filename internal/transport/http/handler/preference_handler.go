package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"datagov-console/internal/core/cache"
	"datagov-console/internal/domain"
	"datagov-console/internal/lifecycle"
	"datagov-console/internal/transport/http/response"
)

type PreferenceHandler struct {
	Engine *lifecycle.Engine
	Cache  *cache.Cache
	Log    *zap.Logger
}

func NewPreferenceHandler(engine *lifecycle.Engine, c *cache.Cache, log *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{Engine: engine, Cache: c, Log: log}
}

// PUT /users/:userId/preferences 未传字段保留原值
func (h *PreferenceHandler) Upsert(c *gin.Context) {
	userID := c.Param("userId")
	var patch lifecycle.PreferencePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Msg(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.Engine.UpsertPreference(c.Request.Context(), userID, patch)
	if err != nil {
		// 软删用户的偏好写入按 403 返回
		if errors.Is(err, domain.ErrAlreadyDeleted) {
			response.Msg(c, http.StatusForbidden, "user is soft-deleted")
			return
		}
		response.Err(c, err)
		return
	}
	if h.Cache != nil {
		if err := h.Cache.Invalidate(c.Request.Context(), prefKey(userID)); err != nil {
			h.Log.Warn("cache invalidate failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, p)
}

// GET /users/:userId/preferences
func (h *PreferenceHandler) Get(c *gin.Context) {
	userID := c.Param("userId")
	ctx := c.Request.Context()

	load := func(ctx context.Context) (*domain.Preference, error) {
		return h.Engine.GetPreference(ctx, userID)
	}
	var p *domain.Preference
	var err error
	if h.Cache != nil {
		p, err = cache.GetOrLoadJSON[domain.Preference](h.Cache, ctx, prefKey(userID), userCacheTTL, load)
	} else {
		p, err = load(ctx)
	}
	if err != nil {
		response.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
