package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskInvite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string    `gorm:"size:64;not null;uniqueIndex" json:"token"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CanEdit   bool      `gorm:"not null;default:false" json:"can_edit"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (i *TaskInvite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether now is strictly after the expiry instant.
func (i *TaskInvite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
