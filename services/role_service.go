package services

import (
	"errors"
	"fmt"

	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleServiceInterface interface {
	// LoadTask reads the task and its effective collaborators through tx and
	// checks that actorID holds at least minimum on it.
	LoadTask(tx *gorm.DB, actorID uuid.UUID, taskID uuid.UUID, minimum models.RoleType, lock bool) (models.Task, models.RoleType, error)
	GetRole(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) (models.RoleType, error)
}

type RoleService struct{}

func NewRoleService() *RoleService {
	return &RoleService{}
}

func (s *RoleService) LoadTask(tx *gorm.DB, actorID uuid.UUID, taskID uuid.UUID, minimum models.RoleType, lock bool) (models.Task, models.RoleType, error) {
	query := tx
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var task models.Task
	if err := query.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, models.NoRole, ErrTaskNotFound
		}
		return models.Task{}, models.NoRole, fmt.Errorf("loading task %s: %w", taskID, err)
	}

	collaborators, err := effectiveCollaborators(tx, task)
	if err != nil {
		return models.Task{}, models.NoRole, err
	}
	task.Collaborators = collaborators

	role := models.RoleOf(actorID, task)
	if !role.CanView() {
		return models.Task{}, role, ErrTaskNotFound
	}
	if !models.IsRoleSufficient(role, minimum) {
		return models.Task{}, role, forbiddenFor(minimum)
	}
	return task, role, nil
}

func (s *RoleService) GetRole(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) (models.RoleType, error) {
	_, role, err := s.LoadTask(db.DB, actorID, taskID, models.ViewerRole, false)
	if err != nil && !errors.Is(err, ErrTaskNotFound) {
		return models.NoRole, err
	}
	return role, nil
}

// effectiveCollaborators returns the task's own collaborator rows followed by
// those of its parent. Subtasks are shared along with their parent.
func effectiveCollaborators(tx *gorm.DB, task models.Task) ([]models.TaskCollaborator, error) {
	var own []models.TaskCollaborator
	if err := tx.Where("task_id = ?", task.ID).Order("created_at").Find(&own).Error; err != nil {
		return nil, fmt.Errorf("loading collaborators: %w", err)
	}
	if !task.IsSubtask() {
		return own, nil
	}

	var inherited []models.TaskCollaborator
	if err := tx.Where("task_id = ?", *task.ParentID).Order("created_at").Find(&inherited).Error; err != nil {
		return nil, fmt.Errorf("loading parent collaborators: %w", err)
	}
	return append(own, inherited...), nil
}

func forbiddenFor(minimum models.RoleType) *ServiceError {
	if minimum == models.OwnerRole {
		return newError(ErrForbidden, "Only the task owner can perform this action")
	}
	return newError(ErrForbidden, "You do not have permission to edit this task")
}

// Global instance that will be initialized in main.go
var RoleServiceInstance RoleServiceInterface = NewRoleService()
