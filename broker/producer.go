package broker

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// KeyHeader carries the message key, usually the event type.
const KeyHeader = "Event-Key"

var ErrProducerClosed = errors.New("producer is closed")

type Producer interface {
	PublishMessage(subject string, key string, data []byte) error
	Close()
}

type NatsProducer struct {
	conn *nats.Conn
}

// InitProducer connects to NATS. Callers fall back to DefaultProducer when the
// broker is unreachable so the API keeps serving.
func InitProducer(url string) (*NatsProducer, error) {
	conn, err := nats.Connect(url,
		nats.Name("focuslist-producer"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				zap.L().Warn("nats producer disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			zap.L().Info("nats producer reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	zap.L().Info("nats producer initialized", zap.String("url", url))
	return &NatsProducer{conn: conn}, nil
}

func (p *NatsProducer) PublishMessage(subject string, key string, data []byte) error {
	if p.conn == nil || p.conn.IsClosed() {
		return ErrProducerClosed
	}
	msg := nats.NewMsg(subject)
	msg.Header.Set(KeyHeader, key)
	msg.Data = data
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

func (p *NatsProducer) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		zap.L().Warn("failed to drain nats connection", zap.Error(err))
		p.conn.Close()
	}
}

// DefaultProducer only logs. It is used when no broker is configured.
type DefaultProducer struct{}

func (DefaultProducer) PublishMessage(subject string, key string, data []byte) error {
	zap.L().Debug("broker disabled, dropping message",
		zap.String("subject", subject), zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

func (DefaultProducer) Close() {}
