// Package queue provides the event bus adapters behind ports.MessageQueue.
package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/pkg/config"
)

// Connected is implemented by adapters that can report link status to health checks.
type Connected interface {
	ports.MessageQueue
	IsConnected() bool
}

// New connects the driver named in cfg. Driver "none" yields a Noop bus.
func New(cfg config.QueueConfig, log *zap.Logger) (Connected, error) {
	switch cfg.Driver {
	case "nats":
		return NewNATSQueue(cfg.NATS, log)
	case "rabbitmq":
		return NewRabbitMQQueue(cfg.RabbitMQ, log)
	case "none", "":
		log.Info("Event bus disabled")
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unsupported queue driver %q", cfg.Driver)
	}
}

// Noop drops published events and never delivers.
type Noop struct{}

func (Noop) Publish(subject string, data []byte) error                        { return nil }
func (Noop) Subscribe(subject string, handler func(data []byte) error) error { return nil }
func (Noop) Close() error                                                     { return nil }
func (Noop) IsConnected() bool                                                { return true }
