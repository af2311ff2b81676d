package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bloghub/internal/microservices/http-api/policy"
	"bloghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	ContextClaims = "claims"
	ContextUserID = "userID"
	ContextActor  = "actor"
)

// Authenticator verifies access tokens. service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*service.Claims, error)
}

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// Requests without a valid bearer token are rejected.
func AuthMiddleware(a Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return authenticate(a, logger, true)
}

// OptionalAuth identifies the caller when a token is sent and lets anonymous
// requests through. A token that is sent but invalid is still rejected.
func OptionalAuth(a Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return authenticate(a, logger, false)
}

func authenticate(a Authenticator, logger *slog.Logger, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": policy.ErrUnauthenticated.Error()})
				return
			}
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := a.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrAuthentication) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			logger.Error("token authentication failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		// Set user info in context for handlers to use
		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextActor, claims.Actor())

		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or nil for anonymous requests.
func ActorFrom(c *gin.Context) *policy.Actor {
	if v, ok := c.Get(ContextActor); ok {
		if actor, ok := v.(*policy.Actor); ok {
			return actor
		}
	}
	return nil
}

// ClaimsFrom returns the verified access token claims, or nil.
func ClaimsFrom(c *gin.Context) *service.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*service.Claims); ok {
			return claims
		}
	}
	return nil
}
