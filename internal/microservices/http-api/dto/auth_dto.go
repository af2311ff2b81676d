package dto

import (
	"time"

	"bloghub/internal/microservices/http-api/models"
)

// Data Transfer Objects for account requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=150"`
	Email           string `json:"email" binding:"required,email,max=254"`
	FirstName       string `json:"first_name" binding:"max=64"`
	LastName        string `json:"last_name" binding:"max=64"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// LoginRequest: email is the identity key
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest: payload for refreshing access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest: the refresh token is optional, the access token is always revoked
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest: nil fields are left untouched
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=64"`
	LastName  *string `json:"last_name" binding:"omitempty,max=64"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	Avatar    *string `json:"avatar" binding:"omitempty,max=255"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
}

// ProfileResponse is the public view of an account.
type ProfileResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	FullName      string    `json:"full_name"`
	Avatar        *string   `json:"avatar"`
	Bio           string    `json:"bio"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	PostsCount    int64     `json:"posts_count"`
	CommentsCount int64     `json:"comments_count"`
}

func FromModelToProfile(u *models.User, posts, comments int64) *ProfileResponse {
	return &ProfileResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Avatar:        u.Avatar,
		Bio:           u.Bio,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		PostsCount:    posts,
		CommentsCount: comments,
	}
}

// AuthResponse: response payload after register or login
type AuthResponse struct {
	User      *ProfileResponse `json:"user"`
	Refresh   string           `json:"refresh"`
	Access    string           `json:"access"`
	ExpiresIn int64            `json:"expires_in"` // seconds
	Message   string           `json:"message"`
}

// TokenResponse: response payload after refreshing access token
type TokenResponse struct {
	Access    string `json:"access"`
	ExpiresIn int64  `json:"expires_in"`
}

// AuthorInfo is the embedded author summary on posts and comments.
type AuthorInfo struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Avatar   *string `json:"avatar"`
}

func FromModelToAuthorInfo(u *models.User) AuthorInfo {
	return AuthorInfo{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName(),
		Avatar:   u.Avatar,
	}
}
