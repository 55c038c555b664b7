package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Color     string    `gorm:"size:9;not null" json:"color"`
	Icon      *string   `gorm:"size:50" json:"icon"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type DefaultCategory struct {
	Name  string
	Color string
	Icon  string
}

// DefaultCategories are created for every new account.
var DefaultCategories = []DefaultCategory{
	{Name: "Work", Color: "#3B82F6", Icon: "briefcase"},
	{Name: "Personal", Color: "#10B981", Icon: "user"},
	{Name: "Health", Color: "#EF4444", Icon: "heart"},
	{Name: "Learning", Color: "#8B5CF6", Icon: "book"},
	{Name: "Errands", Color: "#F59E0B", Icon: "cart"},
}
