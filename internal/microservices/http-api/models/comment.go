package models

import "time"

// Comment is a post comment. Replies point at their parent through ParentID;
// (post_id, parent_id) is indexed so reply lookups never walk the tree in memory.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID  string    `json:"author_id" gorm:"type:uuid;not null;index"`
	PostID    int64     `json:"post_id" gorm:"not null;index:idx_comments_post_parent,priority:1"`
	ParentID  *int64    `json:"parent_id,omitempty" gorm:"index:idx_comments_post_parent,priority:2"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author  User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Post    Post      `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsReply is derived from the parent reference and never persisted.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
