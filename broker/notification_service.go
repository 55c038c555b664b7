package broker

import (
	"focuslist/focuslist/models"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NotificationHandler receives decoded push payloads. Delivery to devices is
// handled outside this service.
type NotificationHandler func(event models.NotificationEvent)

// LogNotification is the default handler: it records that a push was due.
func LogNotification(event models.NotificationEvent) {
	zap.L().Info("push notification",
		zap.String("user_id", event.UserID),
		zap.String("type", event.EventType),
		zap.String("title", event.Title))
}

// StartNotificationConsumer drains push payloads until the channel closes or
// done is closed.
func StartNotificationConsumer(messages <-chan *nats.Msg, done <-chan struct{}, handler NotificationHandler) {
	for {
		select {
		case <-done:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			HandleNotificationMessage(msg, handler)
		}
	}
}

func HandleNotificationMessage(msg *nats.Msg, handler NotificationHandler) {
	var event models.NotificationEvent
	if err := event.FromJSON(msg.Data); err != nil {
		zap.L().Warn("failed to unmarshal notification event",
			zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	handler(event)
}
