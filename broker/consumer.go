package broker

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const consumerBuffer = 256

type Consumer struct {
	conn          *nats.Conn
	subscriptions []*nats.Subscription
	messages      chan *nats.Msg
}

// InitConsumer subscribes to every subject in the given queue group and fans
// all deliveries into a single channel.
func InitConsumer(url string, subjects []string, queue string) (*Consumer, error) {
	conn, err := nats.Connect(url, nats.Name("focuslist-"+queue))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}

	c := &Consumer{
		conn:     conn,
		messages: make(chan *nats.Msg, consumerBuffer),
	}
	for _, subject := range subjects {
		sub, err := conn.ChanQueueSubscribe(subject, queue, c.messages)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		c.subscriptions = append(c.subscriptions, sub)
	}

	zap.L().Info("nats consumer started",
		zap.Strings("subjects", subjects), zap.String("queue", queue))
	return c, nil
}

func (c *Consumer) GetMessageChannel() chan *nats.Msg {
	return c.messages
}

func (c *Consumer) Close() {
	for _, sub := range c.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			zap.L().Warn("failed to unsubscribe", zap.String("subject", sub.Subject), zap.Error(err))
		}
	}
	c.subscriptions = nil
	if c.conn != nil {
		c.conn.Close()
	}
}
