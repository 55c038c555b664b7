package services

import (
	"fmt"
	"math/rand/v2"

	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type WheelFilter struct {
	MaxDuration *int
	Effort      *models.Effort
	Urgency     *models.Urgency
	CategoryID  *uuid.UUID
}

type WheelServiceInterface interface {
	Candidates(db *database.Database, actorID uuid.UUID, filter WheelFilter) ([]models.Task, error)
	Spin(db *database.Database, actorID uuid.UUID, filter WheelFilter) (models.Task, error)
}

// WheelService picks the actor's next task. It never changes task state.
type WheelService struct {
	pick func(n int) int
}

func NewWheelService() *WheelService {
	return &WheelService{pick: rand.IntN}
}

// Candidates are the actor's own pending tasks that could be started right
// now. Tasks without a duration are excluded when MaxDuration is set.
func (s *WheelService) Candidates(db *database.Database, actorID uuid.UUID, filter WheelFilter) ([]models.Task, error) {
	query := sq.Select("tasks.*").From("tasks").
		Where(sq.Eq{
			"tasks.user_id": actorID.String(),
			"tasks.status":  string(models.StatusPending),
		}).
		Where("NOT EXISTS (SELECT 1 FROM tasks sub WHERE sub.parent_id = tasks.id AND sub.status <> ?)",
			string(models.StatusCompleted))

	if filter.MaxDuration != nil {
		if *filter.MaxDuration < 1 {
			return nil, validationError("Invalid filter", map[string]string{"max_duration": "must be at least 1"})
		}
		query = query.Where(sq.LtOrEq{"tasks.duration": *filter.MaxDuration})
	}
	if filter.Effort != nil {
		if !filter.Effort.Valid() {
			return nil, validationError("Invalid filter", map[string]string{"effort": "must be one of MINIMAL LOW MODERATE HIGH EXTREME"})
		}
		query = query.Where(sq.Eq{"tasks.effort": string(*filter.Effort)})
	}
	if filter.Urgency != nil {
		if !filter.Urgency.Valid() {
			return nil, validationError("Invalid filter", map[string]string{"urgency": "must be one of LOW MEDIUM HIGH"})
		}
		query = query.Where(sq.Eq{"tasks.urgency": string(*filter.Urgency)})
	}
	if filter.CategoryID != nil {
		query = query.Where(sq.Eq{"tasks.category_id": filter.CategoryID.String()})
	}

	sql, args, err := query.OrderBy("tasks.position ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building candidate query: %w", err)
	}

	tasks := []models.Task{}
	if err := db.DB.Raw(sql, args...).Scan(&tasks).Error; err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	return tasks, nil
}

func (s *WheelService) Spin(db *database.Database, actorID uuid.UUID, filter WheelFilter) (models.Task, error) {
	candidates, err := s.Candidates(db, actorID, filter)
	if err != nil {
		return models.Task{}, err
	}
	if len(candidates) == 0 {
		return models.Task{}, ErrNoEligibleTasks
	}
	return candidates[s.pick(len(candidates))], nil
}

var WheelServiceInstance WheelServiceInterface = NewWheelService()
