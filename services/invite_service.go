package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InviteTTL         = 7 * 24 * time.Hour
	MaxLiveInvites    = 10
	inviteTokenLength = 32
)

const (
	InviteReasonNotFound = "not_found"
	InviteReasonExpired  = "expired"
)

// InvitePreview is what an unauthenticated visitor may see about an invite.
type InvitePreview struct {
	TaskID      uuid.UUID `json:"task_id"`
	TaskTitle   string    `json:"task_title"`
	InviterID   uuid.UUID `json:"inviter_id"`
	InviterName string    `json:"inviter_name"`
	CanEdit     bool      `json:"can_edit"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type InviteValidation struct {
	Valid   bool           `json:"valid"`
	Reason  string         `json:"reason,omitempty"`
	Message string         `json:"message,omitempty"`
	Invite  *InvitePreview `json:"invite,omitempty"`
}

type AcceptResult struct {
	TaskID              uuid.UUID `json:"task_id"`
	AlreadyCollaborator bool      `json:"already_collaborator"`
}

type InviteServiceInterface interface {
	CreateInvite(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, canEdit bool) (models.TaskInvite, error)
	ValidateInvite(db *database.Database, token string) (InviteValidation, error)
	AcceptInvite(db *database.Database, actorID uuid.UUID, token string) (AcceptResult, error)
	RevokeInvite(db *database.Database, actorID uuid.UUID, inviteID uuid.UUID) error
	ListInvites(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) ([]models.TaskInvite, error)
}

type InviteService struct {
	roles         RoleServiceInterface
	notifications NotificationServiceInterface
	now           func() time.Time
}

func NewInviteService(roles RoleServiceInterface, notifications NotificationServiceInterface) *InviteService {
	return &InviteService{
		roles:         roles,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// generateInviteToken returns 32 random bytes, base64url encoded without padding.
func generateInviteToken() (string, error) {
	buf := make([]byte, inviteTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *InviteService) CreateInvite(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, canEdit bool) (models.TaskInvite, error) {
	token, err := generateInviteToken()
	if err != nil {
		return models.TaskInvite{}, err
	}

	var invite models.TaskInvite
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		task, _, err := s.roles.LoadTask(tx, actorID, taskID, models.OwnerRole, true)
		if err != nil {
			return err
		}

		now := s.now()
		var live int64
		if err := tx.Model(&models.TaskInvite{}).
			Where("task_id = ? AND expires_at >= ?", task.ID, now).
			Count(&live).Error; err != nil {
			return fmt.Errorf("counting invites: %w", err)
		}
		if live >= MaxLiveInvites {
			return ErrInviteLimitReached
		}

		invite = models.TaskInvite{
			Token:     token,
			TaskID:    task.ID,
			CreatedBy: actorID,
			CanEdit:   canEdit,
			ExpiresAt: now.Add(InviteTTL),
			CreatedAt: now,
		}
		if err := tx.Create(&invite).Error; err != nil {
			return fmt.Errorf("creating invite: %w", err)
		}
		return recordEvent(tx, broker.InviteCreated, "invite", actorID, map[string]interface{}{
			"id":       invite.ID.String(),
			"task_id":  task.ID.String(),
			"can_edit": canEdit,
		})
	})
	if err != nil {
		return models.TaskInvite{}, err
	}
	return invite, nil
}

// ValidateInvite never fails for an unknown or expired token; those are
// reported through the result.
func (s *InviteService) ValidateInvite(db *database.Database, token string) (InviteValidation, error) {
	invite, err := findInvite(db.DB, token)
	if err != nil {
		if errors.Is(err, ErrInviteNotFound) {
			return InviteValidation{Reason: InviteReasonNotFound, Message: ErrInviteNotFound.Message}, nil
		}
		return InviteValidation{}, err
	}
	if invite.IsExpired(s.now()) {
		return InviteValidation{Reason: InviteReasonExpired, Message: ErrInviteExpired.Message}, nil
	}

	var task models.Task
	if err := db.DB.Select("id", "title").First(&task, "id = ?", invite.TaskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InviteValidation{Reason: InviteReasonNotFound, Message: ErrInviteNotFound.Message}, nil
		}
		return InviteValidation{}, fmt.Errorf("loading invited task: %w", err)
	}

	return InviteValidation{
		Valid: true,
		Invite: &InvitePreview{
			TaskID:      task.ID,
			TaskTitle:   task.Title,
			InviterID:   invite.CreatedBy,
			InviterName: userName(db.DB, invite.CreatedBy),
			CanEdit:     invite.CanEdit,
			ExpiresAt:   invite.ExpiresAt,
		},
	}, nil
}

// AcceptInvite upserts the actor as a collaborator. An existing grant is only
// ever upgraded, and the invite stays redeemable.
func (s *InviteService) AcceptInvite(db *database.Database, actorID uuid.UUID, token string) (AcceptResult, error) {
	accepted, err := s.redeem(db, actorID, token)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent acceptance inserted the row first. The retry finds it
		// and applies this invite's permission as an upgrade.
		accepted, err = s.redeem(db, actorID, token)
	}
	if err != nil {
		return AcceptResult{}, err
	}

	if !accepted.result.AlreadyCollaborator {
		s.notifications.Dispatch(db, accepted.task.UserID, models.NotificationCollaboratorJoined,
			"New collaborator",
			fmt.Sprintf("%s joined %q", accepted.joinedName, accepted.task.Title),
			&accepted.task.ID)
	}
	return accepted.result, nil
}

type acceptance struct {
	result     AcceptResult
	task       models.Task
	joinedName string
}

func (s *InviteService) redeem(db *database.Database, actorID uuid.UUID, token string) (acceptance, error) {
	var accepted acceptance
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		invite, err := findInvite(tx, token)
		if err != nil {
			return err
		}
		if invite.IsExpired(s.now()) {
			return ErrInviteExpired
		}

		task := &accepted.task
		if err := tx.First(task, "id = ?", invite.TaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return fmt.Errorf("loading invited task: %w", err)
		}
		if task.UserID == actorID {
			return ErrOwnInvite
		}
		accepted.result.TaskID = task.ID

		var existing models.TaskCollaborator
		err = tx.Where("task_id = ? AND user_id = ?", task.ID, actorID).First(&existing).Error
		switch {
		case err == nil:
			accepted.result.AlreadyCollaborator = true
			if invite.CanEdit && !existing.CanEdit {
				if err := tx.Model(&existing).Update("can_edit", true).Error; err != nil {
					return fmt.Errorf("upgrading collaborator: %w", err)
				}
				return recordEvent(tx, broker.CollaboratorUpdated, "collaborator", actorID, map[string]interface{}{
					"task_id":  task.ID.String(),
					"user_id":  actorID.String(),
					"can_edit": true,
				})
			}
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("loading collaborator: %w", err)
		}

		collaborator := models.TaskCollaborator{
			TaskID:    task.ID,
			UserID:    actorID,
			CanEdit:   invite.CanEdit,
			InvitedBy: invite.CreatedBy,
		}
		if err := tx.Create(&collaborator).Error; err != nil {
			return fmt.Errorf("creating collaborator: %w", err)
		}
		accepted.joinedName = userName(tx, actorID)
		return recordEvent(tx, broker.CollaboratorJoined, "collaborator", actorID, map[string]interface{}{
			"task_id":  task.ID.String(),
			"user_id":  actorID.String(),
			"can_edit": invite.CanEdit,
		})
	})
	if err != nil {
		return acceptance{}, err
	}
	return accepted, nil
}

func (s *InviteService) RevokeInvite(db *database.Database, actorID uuid.UUID, inviteID uuid.UUID) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var invite models.TaskInvite
		if err := tx.First(&invite, "id = ?", inviteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return fmt.Errorf("loading invite: %w", err)
		}

		if _, _, err := s.roles.LoadTask(tx, actorID, invite.TaskID, models.OwnerRole, false); err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		if err := tx.Delete(&invite).Error; err != nil {
			return fmt.Errorf("deleting invite: %w", err)
		}
		return recordEvent(tx, broker.InviteRevoked, "invite", actorID, map[string]interface{}{
			"id":      invite.ID.String(),
			"task_id": invite.TaskID.String(),
		})
	})
}

func (s *InviteService) ListInvites(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) ([]models.TaskInvite, error) {
	if _, _, err := s.roles.LoadTask(db.DB, actorID, taskID, models.OwnerRole, false); err != nil {
		return nil, err
	}

	invites := []models.TaskInvite{}
	if err := db.DB.Where("task_id = ? AND expires_at >= ?", taskID, s.now()).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	return invites, nil
}

func findInvite(tx *gorm.DB, token string) (models.TaskInvite, error) {
	var invite models.TaskInvite
	if token == "" {
		return invite, ErrInviteNotFound
	}
	if err := tx.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invite, ErrInviteNotFound
		}
		return invite, fmt.Errorf("loading invite: %w", err)
	}
	return invite, nil
}

var InviteServiceInstance InviteServiceInterface = NewInviteService(RoleServiceInstance, NotificationServiceInstance)
