package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bloghub/internal/config"
	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/models"
	"bloghub/internal/microservices/http-api/policy"
	"bloghub/internal/microservices/http-api/repository"
	"bloghub/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tokenTypeAccess = "access"

// Claims are carried by access tokens. RegisteredClaims.ID is the jti used
// for logout blacklisting.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the request identity.
func (c *Claims) Actor() *policy.Actor {
	if c == nil {
		return nil
	}
	return &policy.Actor{UserID: c.UserID, Username: c.Username}
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, access *Claims, refreshToken string) error
	Profile(ctx context.Context, actor *policy.Actor) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, actor *policy.Actor, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, actor *policy.Actor, req dto.ChangePasswordRequest) error
	Authenticate(ctx context.Context, accessToken string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	blacklist        repository.TokenBlacklist
	passwords        auth.PasswordValidator
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	blacklist repository.TokenBlacklist,
	passwords auth.PasswordValidator,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		blacklist:        blacklist,
		passwords:        passwords,
		jwtSecret:        []byte(cfg.JWTSecret),
		accessTokenTTL:   cfg.AccessTokenTTL,  // 15 minutes
		refreshTokenTTL:  cfg.RefreshTokenTTL, // 7 days
		now:              time.Now,
	}
}

// Register creates an account and signs the user in.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if err := s.passwords.Validate(req.Password, req.Username, req.Email, req.FirstName, req.LastName); err != nil {
		return nil, validationError(joinLines(err))
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrNameInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hashedPassword,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, lookupErr := s.userRepo.FindByUsername(ctx, req.Username); lookupErr == nil {
				return nil, ErrNameInUse
			}
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	return s.issue(ctx, user, "User registered successfully.")
}

// Login authenticates by email. Unknown emails still pay for a bcrypt compare.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			auth.BurnVerify(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, err
	}

	return s.issue(ctx, user, "User login successfully.")
}

func (s *authService) issue(ctx context.Context, user *models.User, message string) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	posts, comments, err := s.userRepo.CountContent(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:      dto.FromModelToProfile(user, posts, comments),
		Access:    accessToken,
		Refresh:   refreshToken,
		ExpiresIn: int64(s.accessTokenTTL.Seconds()),
		Message:   message,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Type:     tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(), // opaque, only meaningful to this service
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}

	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if refreshToken.Revoked {
		return nil, ErrInvalidToken
	}
	if !refreshToken.Usable(s.now()) {
		// expired tokens are useless, drop them eagerly
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken.ID)
		return nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, notFound(err, ErrInvalidToken)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Access: accessToken, ExpiresIn: int64(s.accessTokenTTL.Seconds())}, nil
}

// Logout revokes the refresh token, which must belong to the caller, and
// blacklists the access token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, access *Claims, refreshTokenString string) error {
	if access == nil {
		return ErrLogoutToken
	}

	if refreshTokenString != "" {
		refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
		if err != nil || refreshToken.UserID != access.UserID || refreshToken.Revoked {
			return ErrLogoutToken
		}
		if err := s.refreshTokenRepo.Revoke(ctx, refreshToken.ID); err != nil {
			return ErrLogoutToken
		}
	}

	if access.ID != "" && access.ExpiresAt != nil {
		if err := s.blacklist.Add(ctx, access.ID, access.ExpiresAt.Sub(s.now())); err != nil {
			return ErrLogoutToken
		}
	}
	return nil
}

func (s *authService) currentUser(ctx context.Context, actor *policy.Actor) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, &Error{Kind: ErrAuthentication, Msg: policy.ErrUnauthenticated.Error()}
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *authService) profile(ctx context.Context, user *models.User) (*dto.ProfileResponse, error) {
	posts, comments, err := s.userRepo.CountContent(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToProfile(user, posts, comments), nil
}

func (s *authService) Profile(ctx context.Context, actor *policy.Actor) (*dto.ProfileResponse, error) {
	user, err := s.currentUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *authService) UpdateProfile(ctx context.Context, actor *policy.Actor, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.currentUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		// empty string clears the avatar
		if *req.Avatar == "" {
			user.Avatar = nil
		} else {
			avatar := *req.Avatar
			user.Avatar = &avatar
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *authService) ChangePassword(ctx context.Context, actor *policy.Actor, req dto.ChangePasswordRequest) error {
	user, err := s.currentUser(ctx, actor)
	if err != nil {
		return err
	}

	if err := auth.VerifyPassword(user.Password, req.OldPassword); err != nil {
		return ErrWrongPassword
	}
	if req.NewPassword != req.NewPasswordConfirm {
		return ErrPasswordMismatch
	}
	if err := s.passwords.Validate(req.NewPassword, user.Username, user.Email, user.FirstName, user.LastName); err != nil {
		return validationError(joinLines(err))
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword)
}

// Authenticate verifies an access token and the account behind it.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != tokenTypeAccess || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	if claims.ID != "" {
		revoked, err := s.blacklist.Contains(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token blacklist: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err, ErrInvalidToken)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return claims, nil
}

// joinLines flattens errors.Join output into one client message.
func joinLines(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", " ")
}
