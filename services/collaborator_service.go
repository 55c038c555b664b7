package services

import (
	"errors"
	"fmt"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CollaboratorServiceInterface interface {
	ListCollaborators(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) ([]models.TaskCollaborator, error)
	UpdateCollaboratorPermission(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, targetID uuid.UUID, canEdit bool) (models.TaskCollaborator, error)
	RemoveCollaborator(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, targetID uuid.UUID) error
}

type CollaboratorService struct {
	roles         RoleServiceInterface
	notifications NotificationServiceInterface
}

func NewCollaboratorService(roles RoleServiceInterface, notifications NotificationServiceInterface) *CollaboratorService {
	return &CollaboratorService{roles: roles, notifications: notifications}
}

func (s *CollaboratorService) ListCollaborators(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) ([]models.TaskCollaborator, error) {
	if _, _, err := s.roles.LoadTask(db.DB, actorID, taskID, models.ViewerRole, false); err != nil {
		return nil, err
	}

	collaborators := []models.TaskCollaborator{}
	if err := db.DB.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&collaborators).Error; err != nil {
		return nil, fmt.Errorf("listing collaborators: %w", err)
	}
	return collaborators, nil
}

func (s *CollaboratorService) UpdateCollaboratorPermission(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, targetID uuid.UUID, canEdit bool) (models.TaskCollaborator, error) {
	var (
		collaborator models.TaskCollaborator
		task         models.Task
		ownerName    string
	)
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		task, _, err = s.roles.LoadTask(tx, actorID, taskID, models.OwnerRole, true)
		if err != nil {
			return err
		}

		collaborator, err = findCollaborator(tx, taskID, targetID)
		if err != nil {
			return err
		}
		if err := tx.Model(&collaborator).Update("can_edit", canEdit).Error; err != nil {
			return fmt.Errorf("updating collaborator: %w", err)
		}
		collaborator.CanEdit = canEdit
		ownerName = userName(tx, actorID)
		return recordEvent(tx, broker.CollaboratorUpdated, "collaborator", actorID, map[string]interface{}{
			"task_id":  taskID.String(),
			"user_id":  targetID.String(),
			"can_edit": canEdit,
		})
	})
	if err != nil {
		return models.TaskCollaborator{}, err
	}

	permission := "view"
	if canEdit {
		permission = "edit"
	}
	s.notifications.Dispatch(db, targetID, models.NotificationTaskShared,
		"Permission updated",
		fmt.Sprintf("%s gave you %s access to %q", ownerName, permission, task.Title),
		&task.ID)
	return collaborator, nil
}

// RemoveCollaborator lets the owner remove anyone and a collaborator remove
// themselves. Access inherited from a parent task cannot be removed here.
func (s *CollaboratorService) RemoveCollaborator(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, targetID uuid.UUID) error {
	var (
		task      models.Task
		actorName string
	)
	selfRemoval := actorID == targetID
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		minimum := models.OwnerRole
		if selfRemoval {
			minimum = models.ViewerRole
		}
		var err error
		task, _, err = s.roles.LoadTask(tx, actorID, taskID, minimum, true)
		if err != nil {
			return err
		}

		collaborator, err := findCollaborator(tx, taskID, targetID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&collaborator).Error; err != nil {
			return fmt.Errorf("removing collaborator: %w", err)
		}
		actorName = userName(tx, actorID)
		return recordEvent(tx, broker.CollaboratorRemoved, "collaborator", actorID, map[string]interface{}{
			"task_id": taskID.String(),
			"user_id": targetID.String(),
			"self":    selfRemoval,
		})
	})
	if err != nil {
		return err
	}

	if selfRemoval {
		s.notifications.Dispatch(db, task.UserID, models.NotificationCollaboratorLeft,
			"Collaborator left",
			fmt.Sprintf("%s left %q", actorName, task.Title),
			&task.ID)
	} else {
		s.notifications.Dispatch(db, targetID, models.NotificationCollaboratorLeft,
			"Removed from task",
			fmt.Sprintf("%s removed you from %q", actorName, task.Title),
			&task.ID)
	}
	return nil
}

func findCollaborator(tx *gorm.DB, taskID uuid.UUID, userID uuid.UUID) (models.TaskCollaborator, error) {
	var collaborator models.TaskCollaborator
	if err := tx.Where("task_id = ? AND user_id = ?", taskID, userID).First(&collaborator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return collaborator, ErrCollaboratorNotFound
		}
		return collaborator, fmt.Errorf("loading collaborator: %w", err)
	}
	return collaborator, nil
}

var CollaboratorServiceInstance CollaboratorServiceInterface = NewCollaboratorService(RoleServiceInstance, NotificationServiceInstance)
