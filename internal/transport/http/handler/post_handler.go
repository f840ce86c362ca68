package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"datagov-console/internal/lifecycle"
	"datagov-console/internal/transport/http/response"
)

type PostHandler struct {
	Engine *lifecycle.Engine
	Log    *zap.Logger
}

func NewPostHandler(engine *lifecycle.Engine, log *zap.Logger) *PostHandler {
	return &PostHandler{Engine: engine, Log: log}
}

// POST /users/:userId/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID := c.Param("userId")
	var in lifecycle.CreatePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Msg(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.Engine.CreatePost(c.Request.Context(), userID, in)
	if err != nil {
		response.Err(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /users/:userId/posts 只含未软删帖子
func (h *PostHandler) ListByUser(c *gin.Context) {
	posts, err := h.Engine.GetUserPosts(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// DELETE /posts/:postId
func (h *PostHandler) SoftDelete(c *gin.Context) {
	if err := h.Engine.SoftDeletePost(c.Request.Context(), c.Param("postId")); err != nil {
		response.Err(c, err)
		return
	}
	response.Msg(c, http.StatusOK, "post soft-deleted successfully")
}
