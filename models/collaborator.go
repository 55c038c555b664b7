package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskCollaborator struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_collaborators_task_user" json:"task_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_collaborators_task_user;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CanEdit   bool      `gorm:"not null;default:false" json:"can_edit"`
	InvitedBy uuid.UUID `gorm:"type:uuid;not null" json:"invited_by"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (c *TaskCollaborator) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
