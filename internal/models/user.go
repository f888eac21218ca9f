package models

import "time"

// User represents a registered account. Users are immutable after
// registration and are never deleted.
type User struct {
	Base
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
