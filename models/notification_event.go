package models

import "encoding/json"

// NotificationEvent is the push payload published for every stored notification.
type NotificationEvent struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	EventType      string `json:"event_type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	TaskID         string `json:"task_id,omitempty"`
	Timestamp      string `json:"timestamp"`
}

func (n *NotificationEvent) FromJSON(data []byte) error {
	return json.Unmarshal(data, n)
}

func (n *NotificationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}
