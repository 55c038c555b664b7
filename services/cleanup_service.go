package services

import (
	"fmt"
	"time"

	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"go.uber.org/zap"
)

type CleanupReport struct {
	ExpiredInvites    int64 `json:"expired_invites"`
	ReadNotifications int64 `json:"read_notifications"`
}

type CleanupServiceInterface interface {
	Run(db *database.Database, now time.Time) (CleanupReport, error)
}

// CleanupService removes expired invites and old read notifications. It is
// driven by an external scheduler through the cleanup command.
type CleanupService struct {
	notifications NotificationServiceInterface
	retention     time.Duration
}

func NewCleanupService(notifications NotificationServiceInterface, retentionDays int) *CleanupService {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &CleanupService{
		notifications: notifications,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func (s *CleanupService) Run(db *database.Database, now time.Time) (CleanupReport, error) {
	var report CleanupReport

	result := db.DB.Where("expires_at < ?", now).Delete(&models.TaskInvite{})
	if result.Error != nil {
		return report, fmt.Errorf("purging expired invites: %w", result.Error)
	}
	report.ExpiredInvites = result.RowsAffected

	purged, err := s.notifications.PurgeRead(db, now.Add(-s.retention))
	if err != nil {
		return report, err
	}
	report.ReadNotifications = purged

	zap.L().Info("cleanup finished",
		zap.Int64("expired_invites", report.ExpiredInvites),
		zap.Int64("read_notifications", report.ReadNotifications))
	return report, nil
}
