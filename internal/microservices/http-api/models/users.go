package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;size:254;not null" json:"email"` // identity key used for login
	Password  string     `gorm:"column:password_hash;not null" json:"-"`     // Not show in JSON
	FirstName string     `gorm:"size:64" json:"first_name"`
	LastName  string     `gorm:"size:64" json:"last_name"`
	Bio       string     `gorm:"size:500" json:"bio"`
	Avatar    *string    `json:"avatar,omitempty"` // opaque reference, storage lives elsewhere
	IsActive  bool       `gorm:"default:true;not null" json:"is_active"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// FullName joins first and last name, trimming the gap when one is missing.
func (user *User) FullName() string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func (User) TableName() string {
	return "users"
}
