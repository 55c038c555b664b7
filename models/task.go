package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusDeferred   TaskStatus = "DEFERRED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDeferred:
		return true
	}
	return false
}

type Effort string

const (
	EffortMinimal  Effort = "MINIMAL"
	EffortLow      Effort = "LOW"
	EffortModerate Effort = "MODERATE"
	EffortHigh     Effort = "HIGH"
	EffortExtreme  Effort = "EXTREME"
)

func (e Effort) Valid() bool {
	switch e {
	case EffortMinimal, EffortLow, EffortModerate, EffortHigh, EffortExtreme:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "NONE"
	RecurrenceDaily   RecurrenceType = "DAILY"
	RecurrenceWeekly  RecurrenceType = "WEEKLY"
	RecurrenceMonthly RecurrenceType = "MONTHLY"
	RecurrenceYearly  RecurrenceType = "YEARLY"
)

func (r RecurrenceType) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Advance returns t moved forward by one recurrence period. NONE returns t.
func (r RecurrenceType) Advance(t time.Time) time.Time {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return t.AddDate(0, 1, 0)
	case RecurrenceYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}

// Location is stored inline on the task row with a location_ column prefix.
type Location struct {
	FormattedAddress *string  `json:"formatted_address,omitempty" validate:"omitempty,max=500"`
	Lat              *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon              *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
	City             *string  `json:"city,omitempty" validate:"omitempty,max=200"`
	Country          *string  `json:"country,omitempty" validate:"omitempty,max=200"`
	PlaceID          *string  `json:"place_id,omitempty" validate:"omitempty,max=300"`
}

type Task struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentID       *uuid.UUID         `gorm:"type:uuid;index" json:"parent_id"`
	CategoryID     *uuid.UUID         `gorm:"type:uuid;index" json:"category_id"`
	Title          string             `gorm:"size:200;not null" json:"title"`
	Body           string             `gorm:"type:text" json:"body"`
	Duration       *int               `json:"duration"`
	Location       Location           `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Effort         Effort             `gorm:"type:varchar(16);not null;default:'MODERATE'" json:"effort"`
	Urgency        Urgency            `gorm:"type:varchar(16);not null;default:'MEDIUM'" json:"urgency"`
	Deadline       *time.Time         `json:"deadline"`
	Status         TaskStatus         `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	RecurrenceType RecurrenceType     `gorm:"type:varchar(16);not null;default:'NONE'" json:"recurrence_type"`
	Position       int                `gorm:"not null;default:0" json:"position"`
	CompletedAt    *time.Time         `json:"completed_at"`
	CreatedAt      time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"not null" json:"updated_at"`
	Children       []Task             `gorm:"foreignKey:ParentID" json:"subtasks,omitempty"`
	Collaborators  []TaskCollaborator `gorm:"foreignKey:TaskID" json:"collaborators,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Task) IsSubtask() bool {
	return t.ParentID != nil
}

// Participants returns the owner followed by every collaborator on the task.
func (t *Task) Participants() []uuid.UUID {
	ids := []uuid.UUID{t.UserID}
	seen := map[uuid.UUID]bool{t.UserID: true}
	for _, c := range t.Collaborators {
		if seen[c.UserID] {
			continue
		}
		seen[c.UserID] = true
		ids = append(ids, c.UserID)
	}
	return ids
}
