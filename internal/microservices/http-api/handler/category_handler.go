package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/middleware"
	"bloghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	scope
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService, logger *slog.Logger, timeout time.Duration) *CategoryHandler {
	return &CategoryHandler{scope: newScope(logger, timeout), categoryService: categoryService}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, required gin.HandlerFunc) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", required, h.Create)
		categories.GET("/:slug", h.Get)
		categories.PUT("/:slug", required, h.Update)
		categories.PATCH("/:slug", required, h.Update)
		categories.DELETE("/:slug", required, h.Delete)
		categories.GET("/:slug/posts", h.Posts)
	}
}

// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	page, err := h.categoryService.List(ctx, opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/categories/:slug
func (h *CategoryHandler) Get(c *gin.Context) {
	key, ok := pathSlug(c)
	if !ok {
		h.fail(c, service.ErrCategoryNotFound)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	category, err := h.categoryService.Get(ctx, key)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	category, err := h.categoryService.Create(ctx, middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// PUT|PATCH /api/categories/:slug
func (h *CategoryHandler) Update(c *gin.Context) {
	key, ok := pathSlug(c)
	if !ok {
		h.fail(c, service.ErrCategoryNotFound)
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	partial := c.Request.Method == http.MethodPatch
	category, err := h.categoryService.Update(ctx, middleware.ActorFrom(c), key, req, partial)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete removes the category. Its posts stay, uncategorized.
// DELETE /api/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	key, ok := pathSlug(c)
	if !ok {
		h.fail(c, service.ErrCategoryNotFound)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.categoryService.Delete(ctx, middleware.ActorFrom(c), key); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/categories/:slug/posts
func (h *CategoryHandler) Posts(c *gin.Context) {
	key, ok := pathSlug(c)
	if !ok {
		h.fail(c, service.ErrCategoryNotFound)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.categoryService.Posts(ctx, key)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
