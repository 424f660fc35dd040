package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"` // bcrypt hash, or the federated marker
	Email        *string   `gorm:"uniqueIndex" json:"email"`
	Mobile       string    `gorm:"size:30" json:"mobile"`
	Picture      string    `gorm:"default:'default.png'" json:"picture"`
	Language     string    `gorm:"size:40;default:'English'" json:"language"`
	Role         string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	// No DeletedAt, accounts are never removed
}

// IsAdmin reports whether the account carries the admin role. The role is
// fixed at creation time; renaming a user never changes privilege.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
