package queue

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/pkg/config"
)

type NATSQueue struct {
	conn *nats.Conn
	log  *zap.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

func NewNATSQueue(cfg config.NATSConfig, log *zap.Logger) (*NATSQueue, error) {
	opts := []nats.Option{
		nats.Name("merchant-os"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}
	if cfg.ReconnectWait > 0 {
		opts = append(opts, nats.ReconnectWait(cfg.ReconnectWait))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("Successfully connected to NATS", zap.String("url", cfg.URL))
	return &NATSQueue{
		conn: nc,
		log:  log,
	}, nil
}

func (q *NATSQueue) Publish(subject string, data []byte) error {
	return q.conn.Publish(subject, data)
}

// Subscribe accepts NATS wildcards ("ledger.>", "order.*").
func (q *NATSQueue) Subscribe(subject string, handler func(data []byte) error) error {
	sub, err := q.conn.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			q.log.Error("Error processing message", zap.String("subject", msg.Subject), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("nats: subscribe %s: %w", subject, err)
	}

	q.mu.Lock()
	q.subs = append(q.subs, sub)
	q.mu.Unlock()
	return nil
}

func (q *NATSQueue) IsConnected() bool {
	return q.conn.IsConnected()
}

// Close drains subscriptions so in-flight handlers finish.
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, sub := range q.subs {
		_ = sub.Unsubscribe()
	}
	q.subs = nil
	return q.conn.Drain()
}
