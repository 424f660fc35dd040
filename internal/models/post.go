package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Category  string    `gorm:"size:60;index;default:'General'" json:"category"`
	Image     string    `json:"image"` // opaque upload reference, optional
	Likes     int       `gorm:"default:0" json:"likes"`
	Dislikes  int       `gorm:"default:0" json:"dislikes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled by queries, not a column
	CommentCount int `gorm:"-" json:"comment_count"`
}
