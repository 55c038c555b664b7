package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTaskShared         NotificationType = "TASK_SHARED"
	NotificationCollaboratorJoined NotificationType = "COLLABORATOR_JOINED"
	NotificationCollaboratorLeft   NotificationType = "COLLABORATOR_LEFT"
	NotificationTaskCompleted      NotificationType = "TASK_COMPLETED"
)

type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	Title     string           `gorm:"size:200;not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	TaskID    *uuid.UUID       `gorm:"type:uuid;index" json:"task_id"`
	CreatedAt time.Time        `gorm:"not null;index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
