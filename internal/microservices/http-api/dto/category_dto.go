package dto

import (
	"time"

	"bloghub/internal/microservices/http-api/models"
)

// CategoryRequest serves create, PUT and PATCH. Name is required on create
// and PUT; the service enforces that.
type CategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PostsCount  int64     `json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromModelToCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		PostsCount:  c.PostsCount,
		CreatedAt:   c.CreatedAt,
	}
}

// CategoryInfo is the embedded category summary on post details.
type CategoryInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryPostsResponse is a category with its published posts.
type CategoryPostsResponse struct {
	Category CategoryResponse `json:"category"`
	Posts    []PostListItem   `json:"posts"`
}
