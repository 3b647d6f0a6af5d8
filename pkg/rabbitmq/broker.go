package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"gitlab.com/mediafxuz/media-fx/config"
	"gitlab.com/mediafxuz/media-fx/models"
	"gitlab.com/mediafxuz/media-fx/pkg/logger"
)

// Broker owns the rabbitmq connection and the two queues: jobs in,
// status updates out.
type Broker struct {
	cfg config.Config
	log logger.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
}

// New connects and declares both queues
func New(cfg config.Config, log logger.Logger) (*Broker, error) {
	b := &Broker{cfg: cfg, log: log}
	if err := b.connect(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Broker) url() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		b.cfg.RabbitMqUser, b.cfg.RabbitMqPassword, b.cfg.RabbitMqHost, b.cfg.RabbitMqPort)
}

func (b *Broker) connect() error {
	conn, err := amqp.Dial(b.url())
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	for _, queue := range []string{b.cfg.ListenQueue, b.cfg.WriteQueue} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
	}

	// one unacked job per worker keeps long encodes from starving peers
	if err := ch.Qos(b.cfg.JobWorkers, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("rabbitmq qos: %w", err)
	}

	b.conn = conn
	b.channel = ch
	return nil
}

// Reconnect tears down and redials. Used when a publish hits a closed
// channel after a broker restart.
func (b *Broker) Reconnect() error {
	b.Close()
	return b.connect()
}

// Consume returns the job delivery stream. Messages are acked by the
// handler once fully processed.
func (b *Broker) Consume() (<-chan amqp.Delivery, error) {
	deliveries, err := b.channel.Consume(b.cfg.ListenQueue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", b.cfg.ListenQueue, err)
	}
	return deliveries, nil
}

// PublishStatus sends a job status update, retrying once through a
// reconnect if the channel has died.
func (b *Broker) PublishStatus(status models.UpdateJobStatus) error {
	body, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	publish := func() error {
		return b.channel.Publish("", b.cfg.WriteQueue, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
	}

	if err := publish(); err != nil {
		b.log.Warn("status publish failed, reconnecting", logger.Error(err))
		if rerr := b.Reconnect(); rerr != nil {
			return fmt.Errorf("publish status: %w", err)
		}
		if err := publish(); err != nil {
			return fmt.Errorf("publish status: %w", err)
		}
	}

	return nil
}

// Close ...
func (b *Broker) Close() {
	if b.channel != nil {
		b.channel.Close()
		b.channel = nil
	}
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
}
