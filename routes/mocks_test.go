package routes

import (
	"time"

	"focuslist/focuslist/database"
	"focuslist/focuslist/models"
	"focuslist/focuslist/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockTaskService struct{ mock.Mock }

func (m *MockTaskService) CreateTask(db *database.Database, actorID uuid.UUID, input services.CreateTaskInput) (models.Task, error) {
	args := m.Called(db, actorID, input)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskById(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) (models.Task, error) {
	args := m.Called(db, actorID, taskID)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) GetTasks(db *database.Database, actorID uuid.UUID, filter services.TaskFilter) ([]models.Task, error) {
	args := m.Called(db, actorID, filter)
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, patch services.TaskPatch) (models.Task, error) {
	args := m.Called(db, actorID, taskID, patch)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) SetTaskStatus(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, status models.TaskStatus) (models.Task, error) {
	args := m.Called(db, actorID, taskID, status)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) error {
	return m.Called(db, actorID, taskID).Error(0)
}

func (m *MockTaskService) ReorderTasks(db *database.Database, actorID uuid.UUID, taskIDs []uuid.UUID) error {
	return m.Called(db, actorID, taskIDs).Error(0)
}

type MockInviteService struct{ mock.Mock }

func (m *MockInviteService) CreateInvite(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, canEdit bool) (models.TaskInvite, error) {
	args := m.Called(db, actorID, taskID, canEdit)
	return args.Get(0).(models.TaskInvite), args.Error(1)
}

func (m *MockInviteService) ValidateInvite(db *database.Database, token string) (services.InviteValidation, error) {
	args := m.Called(db, token)
	return args.Get(0).(services.InviteValidation), args.Error(1)
}

func (m *MockInviteService) AcceptInvite(db *database.Database, actorID uuid.UUID, token string) (services.AcceptResult, error) {
	args := m.Called(db, actorID, token)
	return args.Get(0).(services.AcceptResult), args.Error(1)
}

func (m *MockInviteService) RevokeInvite(db *database.Database, actorID uuid.UUID, inviteID uuid.UUID) error {
	return m.Called(db, actorID, inviteID).Error(0)
}

func (m *MockInviteService) ListInvites(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) ([]models.TaskInvite, error) {
	args := m.Called(db, actorID, taskID)
	return args.Get(0).([]models.TaskInvite), args.Error(1)
}

type MockCollaboratorService struct{ mock.Mock }

func (m *MockCollaboratorService) ListCollaborators(db *database.Database, actorID uuid.UUID, taskID uuid.UUID) ([]models.TaskCollaborator, error) {
	args := m.Called(db, actorID, taskID)
	return args.Get(0).([]models.TaskCollaborator), args.Error(1)
}

func (m *MockCollaboratorService) UpdateCollaboratorPermission(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, targetID uuid.UUID, canEdit bool) (models.TaskCollaborator, error) {
	args := m.Called(db, actorID, taskID, targetID, canEdit)
	return args.Get(0).(models.TaskCollaborator), args.Error(1)
}

func (m *MockCollaboratorService) RemoveCollaborator(db *database.Database, actorID uuid.UUID, taskID uuid.UUID, targetID uuid.UUID) error {
	return m.Called(db, actorID, taskID, targetID).Error(0)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) GetCategories(db *database.Database, userID uuid.UUID) ([]models.Category, error) {
	args := m.Called(db, userID)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryService) CreateCategory(db *database.Database, userID uuid.UUID, input services.CategoryInput) (models.Category, error) {
	args := m.Called(db, userID, input)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(db *database.Database, userID uuid.UUID, categoryID uuid.UUID, patch services.CategoryPatch) (models.Category, error) {
	args := m.Called(db, userID, categoryID, patch)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(db *database.Database, userID uuid.UUID, categoryID uuid.UUID) error {
	return m.Called(db, userID, categoryID).Error(0)
}

func (m *MockCategoryService) CreateDefaultCategories(tx *gorm.DB, userID uuid.UUID) error {
	return m.Called(tx, userID).Error(0)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) Dispatch(db *database.Database, userID uuid.UUID, notificationType models.NotificationType, title, message string, taskID *uuid.UUID) {
	m.Called(db, userID, notificationType, title, message, taskID)
}

func (m *MockNotificationService) GetNotifications(db *database.Database, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(db, userID, unreadOnly)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) CountUnread(db *database.Database, userID uuid.UUID) (int64, error) {
	args := m.Called(db, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(db *database.Database, userID uuid.UUID, notificationID uuid.UUID) error {
	return m.Called(db, userID, notificationID).Error(0)
}

func (m *MockNotificationService) MarkAllRead(db *database.Database, userID uuid.UUID) (int64, error) {
	args := m.Called(db, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) DeleteNotification(db *database.Database, userID uuid.UUID, notificationID uuid.UUID) error {
	return m.Called(db, userID, notificationID).Error(0)
}

func (m *MockNotificationService) PurgeRead(db *database.Database, olderThan time.Time) (int64, error) {
	args := m.Called(db, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockWheelService struct{ mock.Mock }

func (m *MockWheelService) Candidates(db *database.Database, actorID uuid.UUID, filter services.WheelFilter) ([]models.Task, error) {
	args := m.Called(db, actorID, filter)
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockWheelService) Spin(db *database.Database, actorID uuid.UUID, filter services.WheelFilter) (models.Task, error) {
	args := m.Called(db, actorID, filter)
	return args.Get(0).(models.Task), args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(db *database.Database, email, password string) (string, error) {
	args := m.Called(db, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.JWTClaims), args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(db *database.Database, input services.RegisterInput) (models.User, error) {
	args := m.Called(db, input)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) GetUserById(db *database.Database, id uuid.UUID) (models.User, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.User), args.Error(1)
}
