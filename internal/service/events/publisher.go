// Package events fans domain events out to the message queue and to live dashboards.
package events

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type Publisher struct {
	mq    ports.MessageQueue
	hub   ports.Broadcaster
	clock func() time.Time
	log   *zap.Logger
}

// NewPublisher accepts nil mq or hub; the missing side is skipped.
func NewPublisher(mq ports.MessageQueue, hub ports.Broadcaster, clock func() time.Time, log *zap.Logger) *Publisher {
	if clock == nil {
		clock = time.Now
	}
	return &Publisher{mq: mq, hub: hub, clock: clock, log: log}
}

// Publish is best effort: delivery failures are logged, never returned.
func (p *Publisher) Publish(subject, merchantID string, payload interface{}) {
	if p == nil {
		return
	}
	evt, err := domain.NewEvent(subject, merchantID, payload, p.clock())
	if err != nil {
		p.log.Error("Failed to encode event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if p.mq != nil {
		data, err := json.Marshal(evt)
		if err == nil {
			err = p.mq.Publish(subject, data)
		}
		if err != nil {
			p.log.Warn("Failed to publish event",
				zap.String("subject", subject),
				zap.String("merchant_id", merchantID),
				zap.Error(err),
			)
		}
	}

	if p.hub != nil && merchantID != "" {
		p.hub.SendToUser(merchantID, evt)
	}
}
