package service

import (
	"context"
	"testing"

	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/models"
	"bloghub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCategoryService() (CategoryService, *MockCategoryRepository, *MockPostRepository) {
	categories := new(MockCategoryRepository)
	posts := new(MockPostRepository)
	return NewCategoryService(categories, posts), categories, posts
}

func TestCategoryCreate(t *testing.T) {
	s, categories, _ := newTestCategoryService()
	categories.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Café Culture" && c.Slug == "cafe-culture"
	})).Return(nil)

	got, err := s.Create(context.Background(), bob, dto.CategoryRequest{Name: strPtr(" Café Culture ")})

	require.NoError(t, err)
	assert.Equal(t, "cafe-culture", got.Slug)

	_, err = s.Create(context.Background(), nil, dto.CategoryRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = s.Create(context.Background(), bob, dto.CategoryRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryCreate_Duplicate(t *testing.T) {
	s, categories, _ := newTestCategoryService()
	categories.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := s.Create(context.Background(), bob, dto.CategoryRequest{Name: strPtr("Go")})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCategoryUpdate(t *testing.T) {
	s, categories, _ := newTestCategoryService()
	categories.On("GetBySlug", mock.Anything, "go").Return(&models.Category{ID: 1, Name: "Go", Slug: "go", Description: "keep"}, nil)
	categories.On("Update", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Golang" && c.Slug == "golang" && c.Description == "keep"
	})).Return(nil)

	// any authenticated actor may manage categories
	got, err := s.Update(context.Background(), bob, "go", dto.CategoryRequest{Name: strPtr("Golang")}, true)
	require.NoError(t, err)
	assert.Equal(t, "golang", got.Slug)

	_, err = s.Update(context.Background(), nil, "go", dto.CategoryRequest{Name: strPtr("x")}, true)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestCategoryDelete(t *testing.T) {
	s, categories, _ := newTestCategoryService()
	categories.On("GetBySlug", mock.Anything, "go").Return(&models.Category{ID: 1, Slug: "go"}, nil)
	categories.On("GetBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
	categories.On("Delete", mock.Anything, int64(1)).Return(nil)

	require.NoError(t, s.Delete(context.Background(), alice, "go"))
	assert.ErrorIs(t, s.Delete(context.Background(), alice, "nope"), ErrCategoryNotFound)
	categories.AssertNumberOfCalls(t, "Delete", 1)
}

func TestCategoryPosts(t *testing.T) {
	s, categories, posts := newTestCategoryService()
	categories.On("GetBySlug", mock.Anything, "go").Return(&models.Category{ID: 1, Name: "Go", Slug: "go", PostsCount: 1}, nil)
	posts.On("ListPublishedByCategory", mock.Anything, int64(1)).Return([]models.Post{*publishedPost(2)}, nil)

	got, err := s.Posts(context.Background(), "go")

	require.NoError(t, err)
	assert.Equal(t, "Go", got.Category.Name)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, int64(2), got.Posts[0].ID)
}

func TestCategoryList(t *testing.T) {
	s, categories, _ := newTestCategoryService()
	categories.On("List", mock.Anything, repository.ListOptions{Page: 2, PageSize: 1}).
		Return([]models.Category{{ID: 2, Name: "Go", Slug: "go"}}, int64(3), nil)

	got, err := s.List(context.Background(), repository.ListOptions{Page: 2, PageSize: 1})

	require.NoError(t, err)
	assert.Equal(t, 3, got.Pagination.TotalPages)
	assert.Equal(t, 2, got.Pagination.Page)
	assert.Equal(t, "go", got.Data[0].Slug)
}
