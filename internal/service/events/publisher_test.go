package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/mocks"
)

func TestPublish_QueueAndHub(t *testing.T) {
	// Arrange
	mq := mocks.NewMockMessageQueue()
	hub := mocks.NewMockBroadcaster()
	at := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	p := NewPublisher(mq, hub, func() time.Time { return at }, zap.NewNop())

	// Act
	p.Publish(domain.SubjectLedgerEntryCreated, "vendor-1", map[string]string{"id": "L001"})

	// Assert
	msgs := mq.GetPublishedMessages(domain.SubjectLedgerEntryCreated)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(msgs))
	}
	var evt domain.Event
	if err := json.Unmarshal(msgs[0], &evt); err != nil {
		t.Fatalf("invalid event json: %v", err)
	}
	if evt.MerchantID != "vendor-1" || evt.Type != domain.SubjectLedgerEntryCreated || !evt.OccurredAt.Equal(at) {
		t.Errorf("unexpected event %+v", evt)
	}
	if hub.Count("vendor-1") != 1 {
		t.Errorf("expected 1 broadcast, got %d", hub.Count("vendor-1"))
	}
}

func TestPublish_QueueFailureIsSwallowed(t *testing.T) {
	mq := mocks.NewMockMessageQueue()
	mq.PublishFunc = func(topic string, data []byte) error { return errors.New("nats down") }
	hub := mocks.NewMockBroadcaster()
	p := NewPublisher(mq, hub, nil, zap.NewNop())

	p.Publish(domain.SubjectOrderStatusChanged, "vendor-1", struct{}{})

	if hub.Count("vendor-1") != 1 {
		t.Error("broadcast should still happen when the queue fails")
	}
}

func TestPublish_NilSafe(t *testing.T) {
	var p *Publisher
	p.Publish("x", "y", nil)

	NewPublisher(nil, nil, nil, zap.NewNop()).Publish("x", "y", 1)
}
