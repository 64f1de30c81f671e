package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is the meet-up announcement that spawns a group. Authoring,
// comments, and search live in the board service; the engine only needs
// the author and the participant limit the group is created from.
type Post struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AuthorID   uint   `gorm:"not null;index" json:"author_id"`
	Title      string `gorm:"size:200;not null" json:"title"`
	Category   string `gorm:"size:50;index" json:"category"`
	LimitCount int    `gorm:"not null" json:"limit_count"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}
