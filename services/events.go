package services

import (
	"fmt"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recordEvent writes an outbox row inside tx. It must share the transaction of
// the change it describes.
func recordEvent(tx *gorm.DB, eventType broker.EventType, entity string, actorID uuid.UUID, data interface{}) error {
	event, err := models.NewEvent(string(eventType), entity, actorID.String(), data)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", eventType, err)
	}
	if err := tx.Create(event).Error; err != nil {
		return fmt.Errorf("recording %s event: %w", eventType, err)
	}
	return nil
}
