package services

import (
	"fmt"
	"time"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationServiceInterface interface {
	// Dispatch stores a notification and publishes its push payload. Failures
	// are logged, never returned: the change that triggered it is already committed.
	Dispatch(db *database.Database, userID uuid.UUID, notificationType models.NotificationType, title, message string, taskID *uuid.UUID)
	GetNotifications(db *database.Database, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	CountUnread(db *database.Database, userID uuid.UUID) (int64, error)
	MarkRead(db *database.Database, userID uuid.UUID, notificationID uuid.UUID) error
	MarkAllRead(db *database.Database, userID uuid.UUID) (int64, error)
	DeleteNotification(db *database.Database, userID uuid.UUID, notificationID uuid.UUID) error
	PurgeRead(db *database.Database, olderThan time.Time) (int64, error)
}

type NotificationService struct {
	producer broker.Producer
}

func NewNotificationService(producer broker.Producer) *NotificationService {
	if producer == nil {
		producer = broker.DefaultProducer{}
	}
	return &NotificationService{producer: producer}
}

func (s *NotificationService) Dispatch(db *database.Database, userID uuid.UUID, notificationType models.NotificationType, title, message string, taskID *uuid.UUID) {
	notification := models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		TaskID:  taskID,
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		zap.L().Error("failed to store notification",
			zap.String("user_id", userID.String()),
			zap.String("type", string(notificationType)),
			zap.Error(err))
		return
	}

	event := models.NotificationEvent{
		NotificationID: notification.ID.String(),
		UserID:         userID.String(),
		EventType:      string(notificationType),
		Title:          title,
		Message:        message,
		Timestamp:      notification.CreatedAt.Format(time.RFC3339),
	}
	if taskID != nil {
		event.TaskID = taskID.String()
	}

	payload, err := event.ToJSON()
	if err != nil {
		zap.L().Error("failed to encode notification event", zap.Error(err))
		return
	}
	if err := s.producer.PublishMessage(broker.NotificationSubjectFor(userID.String()), string(notificationType), payload); err != nil {
		zap.L().Warn("failed to publish notification",
			zap.String("notification_id", notification.ID.String()),
			zap.Error(err))
	}
}

func (s *NotificationService) GetNotifications(db *database.Database, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := db.DB.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	notifications := []models.Notification{}
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) CountUnread(db *database.Database, userID uuid.UUID) (int64, error) {
	var count int64
	if err := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(db *database.Database, userID uuid.UUID, notificationID uuid.UUID) error {
	result := db.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("marking notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(db *database.Database, userID uuid.UUID) (int64, error) {
	result := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("marking notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *NotificationService) DeleteNotification(db *database.Database, userID uuid.UUID, notificationID uuid.UUID) error {
	result := db.DB.Where("id = ? AND user_id = ?", notificationID, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("deleting notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) PurgeRead(db *database.Database, olderThan time.Time) (int64, error) {
	result := db.DB.Where("read = ? AND created_at < ?", true, olderThan).Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("purging notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

var NotificationServiceInstance NotificationServiceInterface = NewNotificationService(nil)
