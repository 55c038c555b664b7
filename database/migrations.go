package database

import (
	"focuslist/focuslist/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// singleInProgressIndex backs the one-active-task-per-owner rule at the
// storage level. Both postgres and sqlite support partial indexes.
const singleInProgressIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_single_in_progress
ON tasks (user_id) WHERE status = 'IN_PROGRESS'`

// RunMigrations runs database migrations to ensure tables are up to date
func RunMigrations(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.TaskCollaborator{},
		&models.TaskInvite{},
		&models.Notification{},
		&models.Event{},
	)
	if err != nil {
		zap.L().Error("migration failed", zap.Error(err))
		return err
	}

	if err := db.Exec(singleInProgressIndex).Error; err != nil {
		zap.L().Error("failed to create single in-progress index", zap.Error(err))
		return err
	}

	return nil
}
