package queue

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/pkg/config"
)

type subscription struct {
	subject string
	handler func(data []byte) error
}

// RabbitMQQueue publishes every subject on one topic exchange, using the subject as routing key.
type RabbitMQQueue struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	url      string
	exchange string
	subs     []subscription
	closed   bool
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewRabbitMQQueue(cfg config.RabbitMQConfig, log *zap.Logger) (*RabbitMQQueue, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = "merchant.events"
	}

	q := &RabbitMQQueue{url: cfg.URL, exchange: exchange, log: log}
	if err := q.connect(); err != nil {
		return nil, err
	}

	go q.monitorConnection()

	log.Info("Successfully connected to RabbitMQ", zap.String("exchange", exchange))
	return q, nil
}

func (q *RabbitMQQueue) connect() error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	if err := ch.ExchangeDeclare(q.exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}

	q.mu.Lock()
	q.conn = conn
	q.channel = ch
	q.mu.Unlock()
	return nil
}

func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	err := q.channel.Publish(
		q.exchange, subject, false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

// Subscribe binds an exclusive queue to subject. NATS-style ">" suffixes map to AMQP "#".
func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	if err := q.bind(subscription{subject: subject, handler: handler}); err != nil {
		return err
	}
	q.mu.Lock()
	q.subs = append(q.subs, subscription{subject: subject, handler: handler})
	q.mu.Unlock()

	q.log.Info("Subscribed to RabbitMQ subject", zap.String("subject", subject))
	return nil
}

func (q *RabbitMQQueue) bind(sub subscription) error {
	q.mu.RLock()
	ch := q.channel
	q.mu.RUnlock()
	if ch == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, RoutingPattern(sub.subject), q.exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue: %w", err)
	}
	msgs, err := ch.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := sub.handler(msg.Body); err != nil {
				q.log.Error("Error processing RabbitMQ message",
					zap.String("routing_key", msg.RoutingKey),
					zap.Error(err),
				)
			}
		}
	}()
	return nil
}

// RoutingPattern converts a NATS subject pattern into an AMQP topic binding key.
func RoutingPattern(subject string) string {
	n := len(subject)
	if n > 0 && subject[n-1] == '>' {
		return subject[:n-1] + "#"
	}
	return subject
}

func (q *RabbitMQQueue) IsConnected() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.conn != nil && !q.conn.IsClosed()
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

func (q *RabbitMQQueue) monitorConnection() {
	for {
		q.mu.RLock()
		conn := q.conn
		q.mu.RUnlock()

		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		q.mu.RLock()
		closed := q.closed
		q.mu.RUnlock()
		if !ok || closed {
			return
		}
		q.log.Warn("RabbitMQ connection lost, reconnecting...", zap.String("reason", reason.Reason))

		for {
			time.Sleep(5 * time.Second)
			if err := q.connect(); err != nil {
				q.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
				continue
			}
			break
		}

		q.mu.RLock()
		subs := append([]subscription(nil), q.subs...)
		q.mu.RUnlock()
		for _, sub := range subs {
			if err := q.bind(sub); err != nil {
				q.log.Error("Failed to restore RabbitMQ subscription", zap.String("subject", sub.subject), zap.Error(err))
			}
		}
		q.log.Info("Successfully reconnected to RabbitMQ", zap.Int("subscriptions", len(subs)))
	}
}
