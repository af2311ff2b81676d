package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/middleware"
	"bloghub/internal/microservices/http-api/repository"
	"bloghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	scope
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService, logger *slog.Logger, timeout time.Duration) *CommentHandler {
	return &CommentHandler{scope: newScope(logger, timeout), commentService: commentService}
}

// RegisterRoutes registers comment-related routes
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, required gin.HandlerFunc) {
	comments := rg.Group("/comments")
	{
		comments.GET("", h.List)
		comments.POST("", required, h.Create)
		comments.GET("/my-comments", required, h.ListMine)
		comments.GET("/post/:post_id", h.ListForPost)

		comments.GET("/:id", h.Get)
		comments.PUT("/:id", required, h.Update)
		comments.PATCH("/:id", required, h.Update)
		comments.DELETE("/:id", required, h.Delete)
		comments.GET("/:id/replies", h.ListReplies)
	}
}

// commentFilter reads post, author, parent and is_active. parent=null
// selects top-level comments.
func commentFilter(c *gin.Context) (repository.CommentFilter, bool) {
	opts, err := listOptions(c)
	if err != nil {
		badRequest(c, err.Error())
		return repository.CommentFilter{}, false
	}
	filter := repository.CommentFilter{AuthorID: c.Query("author"), ListOptions: opts}

	if filter.PostID, err = queryID(c, "post"); err != nil {
		badRequest(c, err.Error())
		return filter, false
	}
	if c.Query("parent") == "null" {
		filter.TopLevel = true
	} else if filter.ParentID, err = queryID(c, "parent"); err != nil {
		badRequest(c, err.Error())
		return filter, false
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "invalid is_active")
			return filter, false
		}
		filter.IsActive = &active
	}
	return filter, true
}

// GET /api/comments
func (h *CommentHandler) List(c *gin.Context) {
	filter, ok := commentFilter(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	page, err := h.commentService.List(ctx, filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListMine includes the caller's deleted comments.
// GET /api/comments/my-comments
func (h *CommentHandler) ListMine(c *gin.Context) {
	filter, ok := commentFilter(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	page, err := h.commentService.ListMine(ctx, middleware.ActorFrom(c), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create creates a comment or, with a parent, a reply
// POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	comment, err := h.commentService.Create(ctx, middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GET /api/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid comment id")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	comment, err := h.commentService.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// PUT|PATCH /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid comment id")
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	comment, err := h.commentService.Update(ctx, middleware.ActorFrom(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete hides the comment; the row is kept.
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid comment id")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.commentService.Delete(ctx, middleware.ActorFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/comments/post/:post_id
func (h *CommentHandler) ListForPost(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		badRequest(c, "invalid post id")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.commentService.ListForPost(ctx, postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/comments/:id/replies
func (h *CommentHandler) ListReplies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid comment id")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.commentService.ListReplies(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
