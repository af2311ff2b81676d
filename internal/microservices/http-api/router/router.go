// Package router assembles the gin engine: middleware chain, handlers and the
// services behind them.
package router

import (
	"context"
	"log/slog"
	"time"

	"bloghub/database"
	"bloghub/internal/config"
	"bloghub/internal/microservices/http-api/handler"
	"bloghub/internal/microservices/http-api/middleware"
	"bloghub/internal/microservices/http-api/repository"
	"bloghub/internal/microservices/http-api/service"
	"bloghub/internal/middleware/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services is everything the handlers call into.
type Services struct {
	Auth     service.AuthService
	Posts    service.PostService
	Category service.CategoryService
	Comments service.CommentService
	Ping     handler.Pinger
}

// NewServices wires repositories and services over db. blacklist may be
// backed by a nil redis client, in which case logout only revokes refresh
// tokens.
func NewServices(db *gorm.DB, blacklist repository.TokenBlacklist, cfg *config.Config) Services {
	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return Services{
		Auth:     service.NewAuthService(userRepo, refreshRepo, blacklist, auth.NewPasswordPolicy(cfg.PasswordMinLength), cfg),
		Posts:    service.NewPostService(postRepo, categoryRepo),
		Category: service.NewCategoryService(categoryRepo, postRepo),
		Comments: service.NewCommentService(commentRepo, postRepo),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	}
}

// New builds the engine serving every route under /api.
func New(svc Services, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// gin trusts every proxy by default, which lets clients pick their own ClientIP
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	required := middleware.AuthMiddleware(svc.Auth, logger)
	optional := middleware.OptionalAuth(svc.Auth, logger)
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)

	api := r.Group("/api")
	handler.NewHealthHandler(svc.Ping, logger).RegisterRoutes(api)
	handler.NewAuthHandler(svc.Auth, logger, cfg.RequestTimeout).RegisterRoutes(api, limiter.Middleware(), required)
	handler.NewPostHandler(svc.Posts, logger, cfg.RequestTimeout).RegisterRoutes(api, optional, required)
	handler.NewCategoryHandler(svc.Category, logger, cfg.RequestTimeout).RegisterRoutes(api, required)
	handler.NewCommentHandler(svc.Comments, logger, cfg.RequestTimeout).RegisterRoutes(api, required)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}
