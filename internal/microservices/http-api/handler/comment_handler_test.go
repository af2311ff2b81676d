package handler

import (
	"net/http"
	"testing"

	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/policy"
	"bloghub/internal/microservices/http-api/repository"
	"bloghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func commentRouter(svc *MockCommentService, actor *policy.Actor) *gin.Engine {
	router := setupRouter()
	NewCommentHandler(svc, discardLogger(), 0).RegisterRoutes(router.Group("/api"), as(actor))
	return router
}

func emptyComments() *dto.Paginated[dto.CommentResponse] {
	return dto.NewPaginated[dto.CommentResponse](nil, 0, 1, repository.DefaultPageSize)
}

func TestListComments_Filters(t *testing.T) {
	defaults := repository.ListOptions{Page: 1, PageSize: repository.DefaultPageSize}
	post, parent := int64(4), int64(12)
	active := false

	tests := []struct {
		name  string
		query string
		want  repository.CommentFilter
	}{
		{"no filters", "", repository.CommentFilter{ListOptions: defaults}},
		{"post and author", "?post=4&author=user-bob", repository.CommentFilter{PostID: &post, AuthorID: "user-bob", ListOptions: defaults}},
		{"parent id", "?parent=12", repository.CommentFilter{ParentID: &parent, ListOptions: defaults}},
		{"top level", "?parent=null", repository.CommentFilter{TopLevel: true, ListOptions: defaults}},
		{"is_active", "?is_active=false", repository.CommentFilter{IsActive: &active, ListOptions: defaults}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCommentService)
			router := commentRouter(svc, nil)
			svc.On("List", mock.Anything, tt.want).Return(emptyComments(), nil)

			w := doRequest(router, http.MethodGet, "/api/comments"+tt.query, "")
			assert.Equal(t, http.StatusOK, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestListComments_InvalidQuery(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, nil)

	for _, q := range []string{"post=x", "parent=-3", "is_active=maybe"} {
		w := doRequest(router, http.MethodGet, "/api/comments?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestMyComments(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, alice)
	svc.On("ListMine", mock.Anything, alice, mock.Anything).Return(emptyComments(), nil)

	w := doRequest(router, http.MethodGet, "/api/comments/my-comments", "")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCreateComment(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, alice)

	parent := int64(3)
	svc.On("Create", mock.Anything, alice, dto.CreateCommentDTO{Post: 1, Parent: &parent, Content: "agreed"}).
		Return(&dto.CommentDetail{CommentResponse: dto.CommentResponse{ID: 8, IsReply: true}}, nil)
	svc.On("Create", mock.Anything, alice, dto.CreateCommentDTO{Post: 2, Content: "hi"}).
		Return(nil, service.ErrCommentPostMissing)

	w := doRequest(router, http.MethodPost, "/api/comments", `{"post":1,"parent":3,"content":"agreed"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"is_reply":true`)

	w = doRequest(router, http.MethodPost, "/api/comments", `{"post":2,"content":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"post does not exist"}`, w.Body.String())

	w = doRequest(router, http.MethodPost, "/api/comments", `{"post":1,"content":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentByID(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, alice)

	svc.On("Get", mock.Anything, int64(5)).Return(&dto.CommentDetail{CommentResponse: dto.CommentResponse{ID: 5}}, nil)
	svc.On("Get", mock.Anything, int64(6)).Return(nil, service.ErrCommentNotFound)
	svc.On("Update", mock.Anything, alice, int64(5), dto.UpdateCommentDTO{Content: "edited"}).
		Return(&dto.CommentDetail{CommentResponse: dto.CommentResponse{ID: 5, Content: "edited"}}, nil)
	svc.On("Delete", mock.Anything, alice, int64(5)).Return(nil)

	w := doRequest(router, http.MethodGet, "/api/comments/5", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/comments/6", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/comments/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w = doRequest(router, method, "/api/comments/5", `{"content":"edited"}`)
		assert.Equal(t, http.StatusOK, w.Code, method)
	}

	w = doRequest(router, http.MethodDelete, "/api/comments/5", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCommentThreadRoutes(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, nil)

	svc.On("ListForPost", mock.Anything, int64(1)).Return(&dto.PostCommentsResponse{
		Post:          dto.PostSummary{ID: 1, Slug: "hello"},
		Comments:      []dto.CommentDetail{},
		CommentsCount: 3,
	}, nil)
	svc.On("ListReplies", mock.Anything, int64(5)).Return(&dto.RepliesResponse{
		ParentComment: dto.CommentResponse{ID: 5},
		Replies:       []dto.CommentResponse{{ID: 6}, {ID: 7}},
		RepliesCount:  2,
	}, nil)

	w := doRequest(router, http.MethodGet, "/api/comments/post/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"comments_count":3`)

	w = doRequest(router, http.MethodGet, "/api/comments/5/replies", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"replies_count":2`)

	w = doRequest(router, http.MethodGet, "/api/comments/post/zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
