package dto

import (
	"time"
	"unicode/utf8"

	"bloghub/internal/microservices/http-api/models"
)

// ListContentLength is how much of a post body list views show.
const ListContentLength = 200

// PostRequest serves create, PUT and PATCH. Nil fields are absent from the
// payload; title and content are required except on PATCH.
type PostRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=100"`
	Content  *string `json:"content" binding:"omitempty,min=1"`
	Image    *string `json:"image" binding:"omitempty,max=255"`
	Category *int64  `json:"category" binding:"omitempty,min=1"`
	Status   *string `json:"status" binding:"omitempty,oneof=draft published"`
}

// PostListItem is the list representation: author and category by name,
// content truncated.
type PostListItem struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Image         *string   `json:"image"`
	Status        string    `json:"status"`
	Author        string    `json:"author"`
	Category      *string   `json:"category"`
	CommentsCount int64     `json:"comments_count"`
	ViewsCount    int64     `json:"views_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostDetail is the single-post representation with full content.
type PostDetail struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	Image         *string       `json:"image"`
	Status        string        `json:"status"`
	Author        string        `json:"author"`
	AuthorInfo    AuthorInfo    `json:"author_info"`
	Category      *int64        `json:"category"`
	CategoryInfo  *CategoryInfo `json:"category_info"`
	CommentsCount int64         `json:"comments_count"`
	ViewsCount    int64         `json:"views_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Truncate cuts s to n runes and marks the cut with "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

func FromModelToPostListItem(p *models.Post) PostListItem {
	item := PostListItem{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       Truncate(p.Content, ListContentLength),
		Image:         p.Image,
		Status:        p.Status,
		Author:        p.Author.Username,
		CommentsCount: p.CommentsCount,
		ViewsCount:    p.ViewsCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		name := p.Category.Name
		item.Category = &name
	}
	return item
}

func FromModelsToPostList(posts []models.Post) []PostListItem {
	items := make([]PostListItem, 0, len(posts))
	for i := range posts {
		items = append(items, FromModelToPostListItem(&posts[i]))
	}
	return items
}

func FromModelToPostDetail(p *models.Post) *PostDetail {
	d := &PostDetail{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Image:         p.Image,
		Status:        p.Status,
		Author:        p.AuthorID,
		AuthorInfo:    FromModelToAuthorInfo(&p.Author),
		Category:      p.CategoryID,
		CommentsCount: p.CommentsCount,
		ViewsCount:    p.ViewsCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		d.CategoryInfo = &CategoryInfo{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}
	return d
}
