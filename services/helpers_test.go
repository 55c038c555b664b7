package services

import (
	"testing"

	"focuslist/focuslist/database"
	"focuslist/focuslist/models"
	"focuslist/focuslist/testutils"

	"github.com/google/uuid"
)

type testEnv struct {
	db            *database.Database
	producer      *testutils.MockProducer
	roles         *RoleService
	notifications *NotificationService
	tasks         *TaskService
	invites       *InviteService
	collaborators *CollaboratorService
	categories    *CategoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	producer := &testutils.MockProducer{}
	roles := NewRoleService()
	notifications := NewNotificationService(producer)
	return &testEnv{
		db:            testutils.SetupTestDB(t),
		producer:      producer,
		roles:         roles,
		notifications: notifications,
		tasks:         NewTaskService(roles, notifications),
		invites:       NewInviteService(roles, notifications),
		collaborators: NewCollaboratorService(roles, notifications),
		categories:    &CategoryService{},
	}
}

func (e *testEnv) user(t *testing.T, email string) uuid.UUID {
	return testutils.CreateUser(t, e.db, email).ID
}

func (e *testEnv) notificationsFor(t *testing.T, userID uuid.UUID) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	if err := e.db.DB.Where("user_id = ?", userID).Find(&notifications).Error; err != nil {
		t.Fatalf("loading notifications: %v", err)
	}
	return notifications
}

func (e *testEnv) loadTask(t *testing.T, id uuid.UUID) models.Task {
	t.Helper()
	var task models.Task
	if err := e.db.DB.First(&task, "id = ?", id).Error; err != nil {
		t.Fatalf("loading task: %v", err)
	}
	return task
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.DB.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("counting: %v", err)
	}
	return n
}

func ptr[T any](v T) *T {
	return &v
}
