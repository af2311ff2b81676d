package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/middleware"
	"bloghub/internal/microservices/http-api/models"
	"bloghub/internal/microservices/http-api/repository"
	"bloghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	scope
	postService service.PostService
}

func NewPostHandler(postService service.PostService, logger *slog.Logger, timeout time.Duration) *PostHandler {
	return &PostHandler{scope: newScope(logger, timeout), postService: postService}
}

// RegisterRoutes mounts /posts. optional identifies the caller when a token
// is present, required rejects anonymous callers.
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup, optional, required gin.HandlerFunc) {
	posts := rg.Group("/posts")
	{
		posts.GET("", optional, h.List)
		posts.POST("", required, h.Create)
		posts.GET("/my-posts", required, h.ListMine)
		posts.GET("/popular", h.Popular)
		posts.GET("/recent", h.Recent)

		posts.GET("/:slug", optional, h.Get)
		posts.PUT("/:slug", required, h.Update)
		posts.PATCH("/:slug", required, h.Update)
		posts.DELETE("/:slug", required, h.Delete)
	}
}

func postFilter(c *gin.Context) (repository.PostFilter, bool) {
	opts, err := listOptions(c)
	if err != nil {
		badRequest(c, err.Error())
		return repository.PostFilter{}, false
	}
	category, err := queryID(c, "category")
	if err != nil {
		badRequest(c, err.Error())
		return repository.PostFilter{}, false
	}
	status := c.Query("status")
	if status != "" && status != models.PostStatusDraft && status != models.PostStatusPublished {
		badRequest(c, "invalid status")
		return repository.PostFilter{}, false
	}
	return repository.PostFilter{
		CategoryID:  category,
		AuthorID:    c.Query("author"),
		Status:      status,
		ListOptions: opts,
	}, true
}

// GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	filter, ok := postFilter(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	page, err := h.postService.List(ctx, middleware.ActorFrom(c), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/posts/my-posts
func (h *PostHandler) ListMine(c *gin.Context) {
	filter, ok := postFilter(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	page, err := h.postService.ListMine(ctx, middleware.ActorFrom(c), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/posts/popular
func (h *PostHandler) Popular(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	posts, err := h.postService.Popular(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GET /api/posts/recent
func (h *PostHandler) Recent(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	posts, err := h.postService.Recent(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Get returns a post and counts the view.
// GET /api/posts/:slug
func (h *PostHandler) Get(c *gin.Context) {
	key, ok := pathSlug(c)
	if !ok {
		h.fail(c, service.ErrPostNotFound)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	post, err := h.postService.Get(ctx, middleware.ActorFrom(c), key)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	post, err := h.postService.Create(ctx, middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Update replaces a post on PUT and merges the given fields on PATCH.
// PUT|PATCH /api/posts/:slug
func (h *PostHandler) Update(c *gin.Context) {
	key, ok := pathSlug(c)
	if !ok {
		h.fail(c, service.ErrPostNotFound)
		return
	}

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	partial := c.Request.Method == http.MethodPatch
	post, err := h.postService.Update(ctx, middleware.ActorFrom(c), key, req, partial)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DELETE /api/posts/:slug
func (h *PostHandler) Delete(c *gin.Context) {
	key, ok := pathSlug(c)
	if !ok {
		h.fail(c, service.ErrPostNotFound)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.postService.Delete(ctx, middleware.ActorFrom(c), key); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
