package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateTaskInput struct {
	Title          string                `json:"title" validate:"required,max=200"`
	Body           string                `json:"body" validate:"max=10000"`
	Duration       *int                  `json:"duration" validate:"omitnil,min=1,max=1440"`
	Location       *models.Location      `json:"location"`
	Effort         models.Effort         `json:"effort" validate:"omitempty,oneof=MINIMAL LOW MODERATE HIGH EXTREME"`
	Urgency        models.Urgency        `json:"urgency" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Deadline       *time.Time            `json:"deadline"`
	RecurrenceType models.RecurrenceType `json:"recurrence_type" validate:"omitempty,oneof=NONE DAILY WEEKLY MONTHLY YEARLY"`
	ParentID       *uuid.UUID            `json:"parent_id"`
	CategoryID     *uuid.UUID            `json:"category_id"`
}

// TaskPatch is a field-level update. A nil pointer leaves the field alone;
// for nullable fields the matching Set flag with a nil value clears it.
type TaskPatch struct {
	Title          *string                `json:"title" validate:"omitnil,max=200"`
	Body           *string                `json:"body" validate:"omitnil,max=10000"`
	Duration       *int                   `json:"duration" validate:"omitnil,min=1,max=1440"`
	DurationSet    bool                   `json:"-"`
	Location       *models.Location       `json:"location"`
	LocationSet    bool                   `json:"-"`
	Effort         *models.Effort         `json:"effort" validate:"omitnil,oneof=MINIMAL LOW MODERATE HIGH EXTREME"`
	Urgency        *models.Urgency        `json:"urgency" validate:"omitnil,oneof=LOW MEDIUM HIGH"`
	Deadline       *time.Time             `json:"deadline"`
	DeadlineSet    bool                   `json:"-"`
	RecurrenceType *models.RecurrenceType `json:"recurrence_type" validate:"omitnil,oneof=NONE DAILY WEEKLY MONTHLY YEARLY"`
	ParentID       *uuid.UUID             `json:"parent_id"`
	ParentIDSet    bool                   `json:"-"`
	CategoryID     *uuid.UUID             `json:"category_id"`
	CategoryIDSet  bool                   `json:"-"`
}

type TaskFilter struct {
	Status     *models.TaskStatus
	CategoryID *uuid.UUID
	ParentID   *uuid.UUID
	RootOnly   bool
	Urgency    *models.Urgency
	Effort     *models.Effort
	Search     string
}

type TaskServiceInterface interface {
	CreateTask(db *database.Database, actorID uuid.UUID, input CreateTaskInput) (models.Task, error)
	GetTaskById(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) (models.Task, error)
	GetTasks(db *database.Database, actorID uuid.UUID, filter TaskFilter) ([]models.Task, error)
	UpdateTask(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, patch TaskPatch) (models.Task, error)
	SetTaskStatus(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, status models.TaskStatus) (models.Task, error)
	DeleteTask(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) error
	ReorderTasks(db *database.Database, actorID uuid.UUID, taskIDs []uuid.UUID) error
}

type TaskService struct {
	roles         RoleServiceInterface
	notifications NotificationServiceInterface
}

func NewTaskService(roles RoleServiceInterface, notifications NotificationServiceInterface) *TaskService {
	return &TaskService{roles: roles, notifications: notifications}
}

var (
	errNestedParent    = validationError("Subtasks cannot have their own subtasks", map[string]string{"parent_id": "must be a top-level task"})
	errRecurringParent = validationError("Recurring tasks cannot have subtasks", map[string]string{"parent_id": "must not be a recurring task"})
	errSubtaskRecurs   = validationError("Subtasks cannot be recurring", map[string]string{"recurrence_type": "must be NONE for a subtask"})
	errParentRecurs    = validationError("Tasks with subtasks cannot be recurring", map[string]string{"recurrence_type": "must be NONE for a task with subtasks"})
)

func (s *TaskService) CreateTask(db *database.Database, actorID uuid.UUID, input CreateTaskInput) (models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateStruct(input); err != nil {
		return models.Task{}, err
	}
	if input.Effort == "" {
		input.Effort = models.EffortModerate
	}
	if input.Urgency == "" {
		input.Urgency = models.UrgencyMedium
	}
	if input.RecurrenceType == "" {
		input.RecurrenceType = models.RecurrenceNone
	}

	var task models.Task
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		ownerID := actorID
		if input.ParentID != nil {
			parent, err := s.loadParent(tx, actorID, *input.ParentID)
			if err != nil {
				return err
			}
			if input.RecurrenceType != models.RecurrenceNone {
				return errSubtaskRecurs
			}
			// Subtasks belong to whoever owns the parent.
			ownerID = parent.UserID
		}

		if input.CategoryID != nil {
			if ownerID != actorID {
				return newError(ErrForbidden, "Only the task owner can set a category")
			}
			if err := checkCategory(tx, ownerID, *input.CategoryID); err != nil {
				return err
			}
		}

		position, err := nextPosition(tx, ownerID, input.ParentID)
		if err != nil {
			return err
		}

		task = models.Task{
			UserID:         ownerID,
			ParentID:       input.ParentID,
			CategoryID:     input.CategoryID,
			Title:          input.Title,
			Body:           input.Body,
			Duration:       input.Duration,
			Effort:         input.Effort,
			Urgency:        input.Urgency,
			Deadline:       input.Deadline,
			Status:         models.StatusPending,
			RecurrenceType: input.RecurrenceType,
			Position:       position,
		}
		if input.Location != nil {
			task.Location = *input.Location
		}

		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("creating task: %w", err)
		}
		return recordEvent(tx, broker.TaskCreated, "task", actorID, taskEventData(task))
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// loadParent resolves a prospective parent. Hierarchy rules are checked before
// edit access so that a nested parent is always a validation failure.
func (s *TaskService) loadParent(tx *gorm.DB, actorID uuid.UUID, parentID uuid.UUID) (models.Task, error) {
	parent, role, err := s.roles.LoadTask(tx, actorID, parentID, models.ViewerRole, false)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return models.Task{}, ErrParentNotFound
		}
		return models.Task{}, err
	}
	if parent.IsSubtask() {
		return models.Task{}, errNestedParent
	}
	if parent.RecurrenceType != models.RecurrenceNone {
		return models.Task{}, errRecurringParent
	}
	if !role.CanEdit() {
		return models.Task{}, newError(ErrForbidden, "You do not have permission to add subtasks to this task")
	}
	return parent, nil
}

func (s *TaskService) GetTaskById(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) (models.Task, error) {
	task, _, err := s.roles.LoadTask(db.DB, actorID, taskID, models.ViewerRole, false)
	if err != nil {
		return models.Task{}, err
	}
	if err := db.DB.Where("parent_id = ?", task.ID).Order("position, created_at").Find(&task.Children).Error; err != nil {
		return models.Task{}, fmt.Errorf("loading subtasks: %w", err)
	}
	return task, nil
}

// GetTasks lists tasks the actor owns or collaborates on, directly or through
// the parent task.
func (s *TaskService) GetTasks(db *database.Database, actorID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	// squirrel expands array values, so ids are bound as strings.
	actor := actorID.String()
	query := sq.Select("tasks.*").From("tasks").Where(sq.Or{
		sq.Eq{"tasks.user_id": actor},
		sq.Expr(`EXISTS (SELECT 1 FROM task_collaborators tc
			WHERE tc.user_id = ? AND (tc.task_id = tasks.id OR tc.task_id = tasks.parent_id))`, actor),
	})

	if filter.Status != nil {
		query = query.Where(sq.Eq{"tasks.status": string(*filter.Status)})
	}
	if filter.CategoryID != nil {
		query = query.Where(sq.Eq{"tasks.category_id": filter.CategoryID.String()})
	}
	if filter.ParentID != nil {
		query = query.Where(sq.Eq{"tasks.parent_id": filter.ParentID.String()})
	} else if filter.RootOnly {
		query = query.Where(sq.Eq{"tasks.parent_id": nil})
	}
	if filter.Urgency != nil {
		query = query.Where(sq.Eq{"tasks.urgency": string(*filter.Urgency)})
	}
	if filter.Effort != nil {
		query = query.Where(sq.Eq{"tasks.effort": string(*filter.Effort)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(sq.Like{"LOWER(tasks.title)": "%" + strings.ToLower(search) + "%"})
	}

	sql, args, err := query.OrderBy("tasks.position ASC", "tasks.created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building task query: %w", err)
	}

	tasks := []models.Task{}
	if err := db.DB.Raw(sql, args...).Scan(&tasks).Error; err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func validateFilter(filter TaskFilter) error {
	fields := map[string]string{}
	if filter.Status != nil && !filter.Status.Valid() {
		fields["status"] = "must be one of PENDING IN_PROGRESS COMPLETED DEFERRED"
	}
	if filter.Urgency != nil && !filter.Urgency.Valid() {
		fields["urgency"] = "must be one of LOW MEDIUM HIGH"
	}
	if filter.Effort != nil && !filter.Effort.Valid() {
		fields["effort"] = "must be one of MINIMAL LOW MODERATE HIGH EXTREME"
	}
	if len(fields) > 0 {
		return validationError("Invalid filter", fields)
	}
	return nil
}

func (s *TaskService) UpdateTask(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, patch TaskPatch) (models.Task, error) {
	if err := validateStruct(patch); err != nil {
		return models.Task{}, err
	}

	var task models.Task
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		current, role, err := s.roles.LoadTask(tx, actorID, taskID, models.EditorRole, true)
		if err != nil {
			return err
		}

		updates, err := s.taskUpdates(tx, current, role, patch)
		if err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Task{}).Where("id = ?", current.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("updating task: %w", err)
			}
			fields := make([]string, 0, len(updates))
			for column := range updates {
				fields = append(fields, column)
			}
			if err := recordEvent(tx, broker.TaskUpdated, "task", actorID, map[string]interface{}{
				"id":     current.ID.String(),
				"fields": fields,
			}); err != nil {
				return err
			}
		}

		if err := tx.First(&task, "id = ?", current.ID).Error; err != nil {
			return fmt.Errorf("reloading task: %w", err)
		}
		task.Collaborators = current.Collaborators
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// taskUpdates turns a patch into column updates after checking every rule
// that depends on the current row.
func (s *TaskService) taskUpdates(tx *gorm.DB, current models.Task, role models.RoleType, patch TaskPatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, validationError("Invalid input", map[string]string{"title": "is required"})
		}
		updates["title"] = title
	}
	if patch.Body != nil {
		updates["body"] = *patch.Body
	}
	if patch.DurationSet {
		updates["duration"] = nullable(patch.Duration)
	}
	if patch.LocationSet {
		for column, value := range locationColumns(patch.Location) {
			updates[column] = value
		}
	}
	if patch.Effort != nil {
		updates["effort"] = *patch.Effort
	}
	if patch.Urgency != nil {
		updates["urgency"] = *patch.Urgency
	}
	if patch.DeadlineSet {
		updates["deadline"] = nullable(patch.Deadline)
	}

	hasChildren := func() (bool, error) {
		var count int64
		if err := tx.Model(&models.Task{}).Where("parent_id = ?", current.ID).Count(&count).Error; err != nil {
			return false, fmt.Errorf("counting subtasks: %w", err)
		}
		return count > 0, nil
	}

	parentID := current.ParentID
	if patch.ParentIDSet && !sameID(patch.ParentID, current.ParentID) {
		// Hierarchy rules come first, as in CreateTask.
		if patch.ParentID != nil {
			if err := checkNewParent(tx, current, *patch.ParentID); err != nil {
				return nil, err
			}
		}
		if !role.IsOwner() {
			return nil, newError(ErrForbidden, "Only the task owner can move a task")
		}
		if patch.ParentID != nil {
			children, err := hasChildren()
			if err != nil {
				return nil, err
			}
			if children {
				return nil, validationError("A task with subtasks cannot become a subtask",
					map[string]string{"parent_id": "task already has subtasks"})
			}
		}
		position, err := nextPosition(tx, current.UserID, patch.ParentID)
		if err != nil {
			return nil, err
		}
		updates["parent_id"] = nullable(patch.ParentID)
		updates["position"] = position
		parentID = patch.ParentID
	}

	recurrence := current.RecurrenceType
	if patch.RecurrenceType != nil {
		recurrence = *patch.RecurrenceType
		updates["recurrence_type"] = recurrence
	}
	if recurrence != models.RecurrenceNone {
		if parentID != nil {
			return nil, errSubtaskRecurs
		}
		if patch.RecurrenceType != nil {
			children, err := hasChildren()
			if err != nil {
				return nil, err
			}
			if children {
				return nil, errParentRecurs
			}
		}
	}

	if patch.CategoryIDSet && !sameID(patch.CategoryID, current.CategoryID) {
		if !role.IsOwner() {
			return nil, newError(ErrForbidden, "Only the task owner can change the category")
		}
		if patch.CategoryID != nil {
			if err := checkCategory(tx, current.UserID, *patch.CategoryID); err != nil {
				return nil, err
			}
		}
		updates["category_id"] = nullable(patch.CategoryID)
	}

	return updates, nil
}

func checkNewParent(tx *gorm.DB, task models.Task, parentID uuid.UUID) error {
	if parentID == task.ID {
		return validationError("A task cannot be its own parent", map[string]string{"parent_id": "must not be the task itself"})
	}
	var parent models.Task
	if err := tx.First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParentNotFound
		}
		return fmt.Errorf("loading parent task: %w", err)
	}
	if parent.UserID != task.UserID {
		return validationError("Parent task must belong to the same owner", map[string]string{"parent_id": "must be one of your tasks"})
	}
	if parent.IsSubtask() {
		return errNestedParent
	}
	if parent.RecurrenceType != models.RecurrenceNone {
		return errRecurringParent
	}
	return nil
}

// SetTaskStatus moves a task through the state machine. Starting a task
// returns every other in-progress task of the same owner to PENDING in the
// same transaction.
func (s *TaskService) SetTaskStatus(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, status models.TaskStatus) (models.Task, error) {
	if !status.Valid() || status == models.StatusDeferred {
		return models.Task{}, validationError("Invalid status",
			map[string]string{"status": "must be one of PENDING IN_PROGRESS COMPLETED"})
	}

	var (
		task      models.Task
		changed   bool
		actorName string
	)
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		current, _, err := s.roles.LoadTask(tx, actorID, taskID, models.EditorRole, true)
		if err != nil {
			return err
		}

		if status == models.StatusInProgress || status == models.StatusCompleted {
			var open int64
			if err := tx.Model(&models.Task{}).
				Where("parent_id = ? AND status <> ?", current.ID, models.StatusCompleted).
				Count(&open).Error; err != nil {
				return fmt.Errorf("counting open subtasks: %w", err)
			}
			if open > 0 {
				return ErrSubtasksIncomplete
			}
		}

		if current.Status == status {
			task = current
			return nil
		}

		if status == models.StatusInProgress {
			if err := deferActiveTasks(tx, actorID, current); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"status": status, "completed_at": nil}
		if status == models.StatusCompleted {
			updates["completed_at"] = time.Now().UTC()
		}
		recurring := status == models.StatusCompleted && current.RecurrenceType != models.RecurrenceNone
		if recurring {
			// The spawned occurrence carries the schedule from here on.
			updates["recurrence_type"] = models.RecurrenceNone
		}

		result := tx.Model(&models.Task{}).
			Where("id = ? AND status = ?", current.ID, current.Status).
			Updates(updates)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return ErrStatusChanged
			}
			return fmt.Errorf("updating task status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrStatusChanged
		}

		if recurring {
			if err := spawnNextOccurrence(tx, actorID, current); err != nil {
				return err
			}
		}

		if err := recordEvent(tx, broker.TaskStatusChanged, "task", actorID, map[string]interface{}{
			"id":   current.ID.String(),
			"from": current.Status,
			"to":   status,
		}); err != nil {
			return err
		}

		if err := tx.First(&task, "id = ?", current.ID).Error; err != nil {
			return fmt.Errorf("reloading task: %w", err)
		}
		task.Collaborators = current.Collaborators
		changed = true
		if status == models.StatusCompleted {
			actorName = userName(tx, actorID)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}

	if changed && status == models.StatusCompleted {
		s.notifyCompleted(db, actorID, actorName, task)
	}
	return task, nil
}

// deferActiveTasks returns the owner's other in-progress tasks to PENDING.
// The owner row lock serialises concurrent starts on postgres.
func deferActiveTasks(tx *gorm.DB, actorID uuid.UUID, task models.Task) error {
	var owner models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&owner, "id = ?", task.UserID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("locking task owner: %w", err)
	}

	var active []uuid.UUID
	if err := tx.Model(&models.Task{}).
		Where("user_id = ? AND status = ? AND id <> ?", task.UserID, models.StatusInProgress, task.ID).
		Pluck("id", &active).Error; err != nil {
		return fmt.Errorf("finding active tasks: %w", err)
	}
	if len(active) == 0 {
		return nil
	}

	if err := tx.Model(&models.Task{}).
		Where("id IN ? AND status = ?", active, models.StatusInProgress).
		Update("status", models.StatusPending).Error; err != nil {
		return fmt.Errorf("deferring active tasks: %w", err)
	}
	for _, id := range active {
		if err := recordEvent(tx, broker.TaskStatusChanged, "task", actorID, map[string]interface{}{
			"id":     id.String(),
			"from":   models.StatusInProgress,
			"to":     models.StatusPending,
			"reason": "deferred",
		}); err != nil {
			return err
		}
	}
	return nil
}

func spawnNextOccurrence(tx *gorm.DB, actorID uuid.UUID, completed models.Task) error {
	position, err := nextPosition(tx, completed.UserID, nil)
	if err != nil {
		return err
	}

	next := models.Task{
		UserID:         completed.UserID,
		CategoryID:     completed.CategoryID,
		Title:          completed.Title,
		Body:           completed.Body,
		Duration:       completed.Duration,
		Location:       completed.Location,
		Effort:         completed.Effort,
		Urgency:        completed.Urgency,
		Status:         models.StatusPending,
		RecurrenceType: completed.RecurrenceType,
		Position:       position,
	}
	if completed.Deadline != nil {
		deadline := completed.RecurrenceType.Advance(*completed.Deadline)
		next.Deadline = &deadline
	}
	if err := tx.Create(&next).Error; err != nil {
		return fmt.Errorf("creating next occurrence: %w", err)
	}

	var shared []models.TaskCollaborator
	if err := tx.Where("task_id = ?", completed.ID).Find(&shared).Error; err != nil {
		return fmt.Errorf("loading collaborators: %w", err)
	}
	for _, c := range shared {
		copied := models.TaskCollaborator{TaskID: next.ID, UserID: c.UserID, CanEdit: c.CanEdit, InvitedBy: c.InvitedBy}
		if err := tx.Create(&copied).Error; err != nil {
			return fmt.Errorf("copying collaborator: %w", err)
		}
	}

	data := taskEventData(next)
	data["recurs_from"] = completed.ID.String()
	return recordEvent(tx, broker.TaskCreated, "task", actorID, data)
}

func (s *TaskService) notifyCompleted(db *database.Database, actorID uuid.UUID, actorName string, task models.Task) {
	message := fmt.Sprintf("%s completed %q", actorName, task.Title)
	for _, userID := range task.Participants() {
		if userID == actorID {
			continue
		}
		s.notifications.Dispatch(db, userID, models.NotificationTaskCompleted, "Task completed", message, &task.ID)
	}
}

// DeleteTask removes the task, its subtasks and everything shared about them.
func (s *TaskService) DeleteTask(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		task, _, err := s.roles.LoadTask(tx, actorID, taskID, models.OwnerRole, true)
		if err != nil {
			return err
		}

		var childIDs []uuid.UUID
		if err := tx.Model(&models.Task{}).Where("parent_id = ?", task.ID).Pluck("id", &childIDs).Error; err != nil {
			return fmt.Errorf("finding subtasks: %w", err)
		}
		ids := append([]uuid.UUID{task.ID}, childIDs...)

		if err := tx.Where("task_id IN ?", ids).Delete(&models.TaskCollaborator{}).Error; err != nil {
			return fmt.Errorf("deleting collaborators: %w", err)
		}
		if err := tx.Where("task_id IN ?", ids).Delete(&models.TaskInvite{}).Error; err != nil {
			return fmt.Errorf("deleting invites: %w", err)
		}
		if err := tx.Model(&models.Notification{}).Where("task_id IN ?", ids).Update("task_id", nil).Error; err != nil {
			return fmt.Errorf("detaching notifications: %w", err)
		}
		if len(childIDs) > 0 {
			if err := tx.Where("id IN ?", childIDs).Delete(&models.Task{}).Error; err != nil {
				return fmt.Errorf("deleting subtasks: %w", err)
			}
		}
		if err := tx.Delete(&models.Task{}, "id = ?", task.ID).Error; err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}

		subtasks := make([]string, 0, len(childIDs))
		for _, id := range childIDs {
			subtasks = append(subtasks, id.String())
		}
		return recordEvent(tx, broker.TaskDeleted, "task", actorID, map[string]interface{}{
			"id":       task.ID.String(),
			"subtasks": subtasks,
		})
	})
}

// ReorderTasks rewrites positions of the actor's own tasks in the given order.
func (s *TaskService) ReorderTasks(db *database.Database, actorID uuid.UUID, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return validationError("Invalid input", map[string]string{"task_ids": "is required"})
	}
	seen := make(map[uuid.UUID]bool, len(taskIDs))
	for _, id := range taskIDs {
		if seen[id] {
			return validationError("Invalid input", map[string]string{"task_ids": "must not contain duplicates"})
		}
		seen[id] = true
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range taskIDs {
			result := tx.Model(&models.Task{}).
				Where("id = ? AND user_id = ?", id, actorID).
				Update("position", i+1)
			if result.Error != nil {
				return fmt.Errorf("reordering tasks: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrTaskNotFound
			}
		}

		ordered := make([]string, 0, len(taskIDs))
		for _, id := range taskIDs {
			ordered = append(ordered, id.String())
		}
		return recordEvent(tx, broker.TasksReordered, "task", actorID, map[string]interface{}{"ids": ordered})
	})
}

func nextPosition(tx *gorm.DB, ownerID uuid.UUID, parentID *uuid.UUID) (int, error) {
	query := tx.Model(&models.Task{}).Where("user_id = ?", ownerID)
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var highest int
	if err := query.Select("COALESCE(MAX(position), 0)").Scan(&highest).Error; err != nil {
		return 0, fmt.Errorf("computing position: %w", err)
	}
	return highest + 1, nil
}

func checkCategory(tx *gorm.DB, ownerID uuid.UUID, categoryID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, ownerID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("checking category: %w", err)
	}
	if count == 0 {
		return validationError("Category not found", map[string]string{"category_id": "must be one of your categories"})
	}
	return nil
}

func userName(tx *gorm.DB, userID uuid.UUID) string {
	var user models.User
	if err := tx.Select("id", "email", "display_name").First(&user, "id = ?", userID).Error; err != nil {
		return "Someone"
	}
	return user.Name()
}

func taskEventData(task models.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":      task.ID.String(),
		"user_id": task.UserID.String(),
		"title":   task.Title,
		"status":  task.Status,
	}
	if task.ParentID != nil {
		data["parent_id"] = task.ParentID.String()
	}
	return data
}

func locationColumns(loc *models.Location) map[string]interface{} {
	if loc == nil {
		loc = &models.Location{}
	}
	return map[string]interface{}{
		"location_formatted_address": nullable(loc.FormattedAddress),
		"location_lat":               nullable(loc.Lat),
		"location_lon":               nullable(loc.Lon),
		"location_city":              nullable(loc.City),
		"location_country":           nullable(loc.Country),
		"location_place_id":          nullable(loc.PlaceID),
	}
}

// nullable turns a typed nil pointer into an untyped nil so gorm writes NULL.
func nullable[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

var TaskServiceInstance TaskServiceInterface = NewTaskService(RoleServiceInstance, NotificationServiceInstance)
