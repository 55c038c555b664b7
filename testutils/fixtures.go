package testutils

import (
	"testing"
	"time"

	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"github.com/google/uuid"
)

func CreateUser(t *testing.T, db *database.Database, email string) models.User {
	t.Helper()
	user := models.User{Email: email, DisplayName: email, PasswordHash: "x"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

// TaskOption tweaks a fixture task before it is inserted.
type TaskOption func(*models.Task)

func WithParent(parent models.Task) TaskOption {
	return func(task *models.Task) {
		id := parent.ID
		task.ParentID = &id
		task.UserID = parent.UserID
	}
}

func WithStatus(status models.TaskStatus) TaskOption {
	return func(task *models.Task) {
		task.Status = status
		if status == models.StatusCompleted {
			now := time.Now().UTC()
			task.CompletedAt = &now
		}
	}
}

func WithRecurrence(r models.RecurrenceType) TaskOption {
	return func(task *models.Task) { task.RecurrenceType = r }
}

func WithDeadline(deadline time.Time) TaskOption {
	return func(task *models.Task) { task.Deadline = &deadline }
}

func WithDuration(minutes int) TaskOption {
	return func(task *models.Task) { task.Duration = &minutes }
}

func WithEffort(effort models.Effort) TaskOption {
	return func(task *models.Task) { task.Effort = effort }
}

func WithCategory(categoryID uuid.UUID) TaskOption {
	return func(task *models.Task) { task.CategoryID = &categoryID }
}

func CreateTask(t *testing.T, db *database.Database, ownerID uuid.UUID, title string, opts ...TaskOption) models.Task {
	t.Helper()
	task := models.Task{
		UserID:         ownerID,
		Title:          title,
		Status:         models.StatusPending,
		Effort:         models.EffortModerate,
		Urgency:        models.UrgencyMedium,
		RecurrenceType: models.RecurrenceNone,
	}
	for _, opt := range opts {
		opt(&task)
	}
	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("creating task: %v", err)
	}
	return task
}

func AddCollaborator(t *testing.T, db *database.Database, taskID, userID uuid.UUID, canEdit bool) models.TaskCollaborator {
	t.Helper()
	collaborator := models.TaskCollaborator{TaskID: taskID, UserID: userID, CanEdit: canEdit, InvitedBy: userID}
	if err := db.DB.Create(&collaborator).Error; err != nil {
		t.Fatalf("creating collaborator: %v", err)
	}
	return collaborator
}

func TaskStatus(t *testing.T, db *database.Database, taskID uuid.UUID) models.TaskStatus {
	t.Helper()
	var task models.Task
	if err := db.DB.First(&task, "id = ?", taskID).Error; err != nil {
		t.Fatalf("loading task: %v", err)
	}
	return task.Status
}
