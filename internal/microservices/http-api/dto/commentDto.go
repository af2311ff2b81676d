package dto

import (
	"time"

	"bloghub/internal/microservices/http-api/models"
)

// CreateCommentDTO for creating a comment or a reply
type CreateCommentDTO struct {
	Post    int64  `json:"post" binding:"required,min=1"`
	Parent  *int64 `json:"parent" binding:"omitempty,min=1"`
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// UpdateCommentDTO for updating a comment; content is the only mutable field
type UpdateCommentDTO struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID           int64      `json:"id"`
	Content      string     `json:"content"`
	Post         int64      `json:"post"`
	Parent       *int64     `json:"parent"`
	Author       string     `json:"author"`
	AuthorInfo   AuthorInfo `json:"author_info"`
	IsActive     bool       `json:"is_active"`
	IsReply      bool       `json:"is_reply"`
	RepliesCount int64      `json:"replies_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CommentDetail adds the active direct replies. Replies always carry an
// empty list.
type CommentDetail struct {
	CommentResponse
	Replies []CommentResponse `json:"replies"`
}

// FromModelToCommentResponse converts a Comment model; repliesCount comes
// from a separate count query.
func FromModelToCommentResponse(c *models.Comment, repliesCount int64) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		Content:      c.Content,
		Post:         c.PostID,
		Parent:       c.ParentID,
		Author:       c.AuthorID,
		AuthorInfo:   FromModelToAuthorInfo(&c.Author),
		IsActive:     c.IsActive,
		IsReply:      c.IsReply(),
		RepliesCount: repliesCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromModelsToComments converts a slice using counts keyed by comment id.
func FromModelsToComments(comments []models.Comment, counts map[int64]int64) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, FromModelToCommentResponse(&comments[i], counts[comments[i].ID]))
	}
	return out
}

func FromModelToCommentDetail(c *models.Comment, counts map[int64]int64) CommentDetail {
	replies := []CommentResponse{}
	if !c.IsReply() {
		replies = FromModelsToComments(c.Replies, counts)
	}
	return CommentDetail{
		CommentResponse: FromModelToCommentResponse(c, counts[c.ID]),
		Replies:         replies,
	}
}

type PostSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// PostCommentsResponse is the threaded view of a post's comments.
type PostCommentsResponse struct {
	Post          PostSummary     `json:"post"`
	Comments      []CommentDetail `json:"comments"`
	CommentsCount int64           `json:"comments_count"`
}

// RepliesResponse lists the direct replies of one comment.
type RepliesResponse struct {
	ParentComment CommentResponse   `json:"parent_comment"`
	Replies       []CommentResponse `json:"replies"`
	RepliesCount  int64             `json:"replies_count"`
}
