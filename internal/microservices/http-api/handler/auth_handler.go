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

type AuthHandler struct {
	scope
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService, logger *slog.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{scope: newScope(logger, timeout), authService: authService}
}

// RegisterRoutes mounts /accounts. limit guards the credential endpoints,
// required guards everything that acts on the caller's account.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, limit, required gin.HandlerFunc) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("/register", limit, h.Register)
		accounts.POST("/login", limit, h.Login)
		accounts.POST("/token/refresh", h.RefreshToken)

		accounts.GET("/profile", required, h.Profile)
		accounts.PUT("/profile", required, h.UpdateProfile)
		accounts.PATCH("/profile", required, h.UpdateProfile)
		accounts.POST("/change-password", required, h.ChangePassword)
		accounts.PUT("/change-password", required, h.ChangePassword)
		accounts.POST("/logout", required, h.Logout)
	}
}

// Register creates an account and returns a token pair
// POST /api/accounts/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.authService.Register(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// POST /api/accounts/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.authService.Login(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/accounts/token/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.authService.RefreshAccessToken(ctx, req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/accounts/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.authService.Profile(ctx, middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PUT|PATCH /api/accounts/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.authService.UpdateProfile(ctx, middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/accounts/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.authService.ChangePassword(ctx, middleware.ActorFrom(c), req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed successfully."})
}

// Logout revokes the refresh token in the body and the access token in use.
// POST /api/accounts/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	// an empty body is fine, only the access token gets revoked then
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid token")
			return
		}
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.authService.Logout(ctx, middleware.ClaimsFrom(c), req.RefreshToken); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User logout successfully."})
}
