package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/middleware"
	"bloghub/internal/microservices/http-api/policy"
	"bloghub/internal/microservices/http-api/repository"
	"bloghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, access *service.Claims, refreshToken string) error {
	return m.Called(ctx, access, refreshToken).Error(0)
}

func (m *MockAuthService) Profile(ctx context.Context, actor *policy.Actor) (*dto.ProfileResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProfileResponse), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, actor *policy.Actor, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProfileResponse), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor *policy.Actor, req dto.ChangePasswordRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*service.Claims, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) List(ctx context.Context, actor *policy.Actor, filter repository.PostFilter) (*dto.Paginated[dto.PostListItem], error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.PostListItem]), args.Error(1)
}

func (m *MockPostService) ListMine(ctx context.Context, actor *policy.Actor, filter repository.PostFilter) (*dto.Paginated[dto.PostListItem], error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.PostListItem]), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, actor *policy.Actor, slug string) (*dto.PostDetail, error) {
	args := m.Called(ctx, actor, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostDetail), args.Error(1)
}

func (m *MockPostService) Create(ctx context.Context, actor *policy.Actor, req dto.PostRequest) (*dto.PostDetail, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostDetail), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, actor *policy.Actor, slug string, req dto.PostRequest, partial bool) (*dto.PostDetail, error) {
	args := m.Called(ctx, actor, slug, req, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostDetail), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, actor *policy.Actor, slug string) error {
	return m.Called(ctx, actor, slug).Error(0)
}

func (m *MockPostService) Popular(ctx context.Context) ([]dto.PostListItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.PostListItem), args.Error(1)
}

func (m *MockPostService) Recent(ctx context.Context) ([]dto.PostListItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.PostListItem), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, opts repository.ListOptions) (*dto.Paginated[dto.CategoryResponse], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CategoryResponse]), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, slug string) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, actor *policy.Actor, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, actor *policy.Actor, slug string, req dto.CategoryRequest, partial bool) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, actor, slug, req, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, actor *policy.Actor, slug string) error {
	return m.Called(ctx, actor, slug).Error(0)
}

func (m *MockCategoryService) Posts(ctx context.Context, slug string) (*dto.CategoryPostsResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryPostsResponse), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateCommentDTO) (*dto.CommentDetail, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentDetail), args.Error(1)
}

func (m *MockCommentService) ListForPost(ctx context.Context, postID int64) (*dto.PostCommentsResponse, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostCommentsResponse), args.Error(1)
}

func (m *MockCommentService) ListReplies(ctx context.Context, commentID int64) (*dto.RepliesResponse, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RepliesResponse), args.Error(1)
}

func (m *MockCommentService) Get(ctx context.Context, commentID int64) (*dto.CommentDetail, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentDetail), args.Error(1)
}

func (m *MockCommentService) List(ctx context.Context, filter repository.CommentFilter) (*dto.Paginated[dto.CommentResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CommentResponse]), args.Error(1)
}

func (m *MockCommentService) ListMine(ctx context.Context, actor *policy.Actor, filter repository.CommentFilter) (*dto.Paginated[dto.CommentResponse], error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CommentResponse]), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, actor *policy.Actor, commentID int64, req dto.UpdateCommentDTO) (*dto.CommentDetail, error) {
	args := m.Called(ctx, actor, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentDetail), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, actor *policy.Actor, commentID int64) error {
	return m.Called(ctx, actor, commentID).Error(0)
}

var alice = &policy.Actor{UserID: "user-alice", Username: "alice"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// as stands in for the auth middleware: nil leaves the request anonymous,
// otherwise the actor is required like the real middleware would.
func as(actor *policy.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor == nil {
			c.Next()
			return
		}
		c.Set(middleware.ContextActor, actor)
		c.Set(middleware.ContextUserID, actor.UserID)
		c.Set(middleware.ContextClaims, &service.Claims{UserID: actor.UserID, Username: actor.Username, Type: "access"})
		c.Next()
	}
}

func doRequest(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
