package models

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type Post struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title      string    `json:"title" gorm:"size:100;not null"`
	Slug       string    `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	Image      *string   `json:"image,omitempty"`
	Status     string    `json:"status" gorm:"size:10;not null;default:'published';index:idx_posts_status_created,priority:1"`
	AuthorID   string    `json:"author_id" gorm:"type:uuid;not null;index:idx_posts_author_created,priority:1"`
	CategoryID *int64    `json:"category_id,omitempty" gorm:"index:idx_posts_category_created,priority:1"`
	ViewsCount int64     `json:"views_count" gorm:"not null;default:0;check:views_count >= 0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index;index:idx_posts_status_created,priority:2;index:idx_posts_category_created,priority:2;index:idx_posts_author_created,priority:2"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author   User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`

	// CommentsCount counts active comments; filled per read, never stored.
	CommentsCount int64 `json:"comments_count" gorm:"->;-:migration"`
}

func (Post) TableName() string {
	return "posts"
}

// IsPublished reports whether anonymous readers may see the post.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
