package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"go.uber.org/zap"
)

const eventBatchSize = 100

type EventHandlerServiceInterface interface {
	Start()
	Stop()
	DispatchPending() (int, error)
}

// EventHandlerService publishes outbox rows to the broker and marks them
// dispatched. Rows that fail to publish stay pending for the next tick.
type EventHandlerService struct {
	db       *database.Database
	producer broker.Producer
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	stop      chan struct{}
	done      chan struct{}
}

func NewEventHandlerService(db *database.Database, producer broker.Producer, interval time.Duration) *EventHandlerService {
	if producer == nil {
		producer = broker.DefaultProducer{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &EventHandlerService{
		db:       db,
		producer: producer,
		interval: interval,
	}
}

func (s *EventHandlerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

func (s *EventHandlerService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()
	<-done
}

func (s *EventHandlerService) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.DispatchPending(); err != nil {
				zap.L().Error("failed to dispatch events", zap.Error(err))
			}
		}
	}
}

// DispatchPending publishes one batch of undispatched events in insertion
// order and returns how many were published.
func (s *EventHandlerService) DispatchPending() (int, error) {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).
		Order("timestamp").
		Limit(eventBatchSize).
		Find(&events).Error; err != nil {
		return 0, fmt.Errorf("fetching events: %w", err)
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			zap.L().Warn("failed to dispatch event",
				zap.String("event_id", event.ID.String()),
				zap.String("event", event.Event),
				zap.Error(err))
			continue
		}
		dispatched++
	}
	if dispatched > 0 {
		zap.L().Debug("dispatched events", zap.Int("count", dispatched))
	}
	return dispatched, nil
}

func (s *EventHandlerService) dispatchEvent(event models.Event) error {
	payload, err := json.Marshal(map[string]interface{}{
		"event_id":  event.ID.String(),
		"type":      event.Event,
		"version":   event.Version,
		"entity":    event.Entity,
		"actor_id":  event.ActorID,
		"timestamp": event.Timestamp,
		"data":      event.Data,
	})
	if err != nil {
		return err
	}

	if err := s.producer.PublishMessage(broker.SubjectForEntity(event.Entity), event.Event, payload); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.DB.Model(&models.Event{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
		"dispatched":    true,
		"dispatched_at": now,
		"status":        "completed",
	}).Error
}
