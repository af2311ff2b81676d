package models

import "time"

type Category struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// PostsCount is filled by queries that select it, never stored.
	PostsCount int64 `json:"posts_count" gorm:"->;-:migration"`
}

func (Category) TableName() string {
	return "categories"
}
