package dto

import (
	"strings"
	"testing"

	"bloghub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly", Truncate("exactly", 7))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	// counts runes, never splits a character
	assert.Equal(t, "héé...", Truncate("héééé", 3))
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated[int](nil, 0, 1, 20)
	assert.NotNil(t, p.Data)
	assert.Equal(t, 0, p.Pagination.TotalPages)

	p = NewPaginated([]int{1, 2}, 41, 3, 20)
	assert.Equal(t, Pagination{Page: 3, PageSize: 20, Total: 41, TotalPages: 3}, p.Pagination)

	p = NewPaginated([]int{1}, 40, 2, 20)
	assert.Equal(t, 2, p.Pagination.TotalPages)
}

func TestFromModelToPostListItem(t *testing.T) {
	post := &models.Post{
		ID:       1,
		Title:    "Long read",
		Slug:     "long-read",
		Content:  strings.Repeat("x", 250),
		Status:   models.PostStatusPublished,
		Author:   models.User{Username: "alice"},
		Category: &models.Category{Name: "Golang"},
	}

	item := FromModelToPostListItem(post)
	assert.Len(t, item.Content, ListContentLength+len("..."))
	assert.Equal(t, "alice", item.Author)
	require.NotNil(t, item.Category)
	assert.Equal(t, "Golang", *item.Category)

	post.Category = nil
	assert.Nil(t, FromModelToPostListItem(post).Category)

	detail := FromModelToPostDetail(post)
	assert.Len(t, detail.Content, 250)
	assert.Nil(t, detail.CategoryInfo)
}

func TestFromModelToCommentDetail(t *testing.T) {
	parentID := int64(1)
	top := &models.Comment{
		ID:       1,
		Content:  "top",
		IsActive: true,
		Author:   models.User{ID: "u1", Username: "alice", FirstName: "Alice"},
		Replies: []models.Comment{
			{ID: 2, ParentID: &parentID, IsActive: true},
			{ID: 3, ParentID: &parentID, IsActive: true},
		},
	}
	counts := map[int64]int64{1: 2, 2: 1}

	d := FromModelToCommentDetail(top, counts)
	assert.False(t, d.IsReply)
	assert.Equal(t, int64(2), d.RepliesCount)
	assert.Equal(t, "Alice", d.AuthorInfo.FullName)
	require.Len(t, d.Replies, 2)
	assert.True(t, d.Replies[0].IsReply)
	assert.Equal(t, int64(1), d.Replies[0].RepliesCount)
	assert.Equal(t, int64(0), d.Replies[1].RepliesCount)

	reply := FromModelToCommentDetail(&top.Replies[0], counts)
	assert.NotNil(t, reply.Replies)
	assert.Empty(t, reply.Replies)
}
