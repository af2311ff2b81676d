package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"bloghub/database"
	"bloghub/internal/config"
	"bloghub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestDB opens a private in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		GoEnv:       "test",
		DBDriver:    "sqlite",
		DatabaseURL: "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Connect(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	require.NoError(t, database.Migrate(db, logger))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: strings.ToLower(name), Description: name + " posts"}
	require.NoError(t, db.Create(c).Error)
	return c
}

// seedPost creates a post minutes after epoch so ordering is deterministic.
func seedPost(t *testing.T, db *gorm.DB, author *models.User, title, status string, minutes int) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:     title,
		Slug:      strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Content:   "content of " + title,
		Status:    status,
		AuthorID:  author.ID,
		CreatedAt: epoch.Add(time.Duration(minutes) * time.Minute),
	}
	require.NoError(t, db.Omit("Author", "Category").Create(p).Error)
	return p
}

func seedComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, parent *models.Comment, minutes int) *models.Comment {
	t.Helper()
	c := &models.Comment{
		AuthorID:  author.ID,
		PostID:    post.ID,
		Content:   fmt.Sprintf("comment at %d", minutes),
		CreatedAt: epoch.Add(time.Duration(minutes) * time.Minute),
	}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, db.Omit("Author", "Post", "Replies").Create(c).Error)
	return c
}

func ptr[T any](v T) *T { return &v }

var ctx = context.Background()
