package testutils

import (
	"sync"

	"focuslist/focuslist/broker"
)

// PublishedMessage is one call captured by MockProducer.
type PublishedMessage struct {
	Subject string
	Key     string
	Data    []byte
}

// MockProducer records everything published through it.
type MockProducer struct {
	mu       sync.Mutex
	Messages []PublishedMessage
	Err      error
}

var _ broker.Producer = (*MockProducer)(nil)

func (m *MockProducer) PublishMessage(subject, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, PublishedMessage{Subject: subject, Key: key, Data: data})
	return nil
}

func (m *MockProducer) Close() {}

func (m *MockProducer) Published() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedMessage(nil), m.Messages...)
}
