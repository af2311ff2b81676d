package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bloghub/internal/microservices/http-api/repository"
	"bloghub/internal/microservices/http-api/service"
	"bloghub/internal/microservices/http-api/slug"

	"github.com/gin-gonic/gin"
)

// DefaultRequestTimeout bounds every service call made by a handler.
const DefaultRequestTimeout = 5 * time.Second

// scope carries what every handler needs to run a request.
type scope struct {
	logger  *slog.Logger
	timeout time.Duration
}

func newScope(logger *slog.Logger, timeout time.Duration) scope {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return scope{logger: logger, timeout: timeout}
}

func (s scope) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.timeout)
}

// fail maps a service error to its status code. Unknown errors are logged
// and hidden behind a generic message.
func (s scope) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("request timed out", "path", c.Request.URL.Path)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		_ = c.Error(err)
		s.logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// listOptions reads search, ordering, page and page_size.
func listOptions(c *gin.Context) (repository.ListOptions, error) {
	opts := repository.ListOptions{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	var err error
	if opts.Page, err = queryInt(c, "page"); err != nil {
		return opts, err
	}
	if opts.PageSize, err = queryInt(c, "page_size"); err != nil {
		return opts, err
	}
	return opts.Normalize(), nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + key)
	}
	return v, nil
}

// queryID reads an optional positive integer id filter.
func queryID(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, errors.New("invalid " + key)
	}
	return &id, nil
}

func pathID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pathSlug returns the :slug param and whether it could name a stored row.
func pathSlug(c *gin.Context) (string, bool) {
	key := c.Param("slug")
	return key, slug.Valid(key)
}
