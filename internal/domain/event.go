package domain

import (
	"encoding/json"
	"time"
)

// Event subjects published on the message queue.
const (
	SubjectLedgerEntryCreated   = "ledger.entry.created"
	SubjectOrderStatusChanged   = "order.status.changed"
	SubjectVoiceConfirmed       = "voice.transaction.confirmed"
	SubjectProductStockAdjusted = "product.stock.adjusted"
)

// Event is the envelope for queue messages and websocket pushes.
type Event struct {
	Type       string          `json:"type"`
	MerchantID string          `json:"merchant_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent marshals payload into an event envelope.
func NewEvent(subject, merchantID string, payload interface{}, at time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: subject, MerchantID: merchantID, Payload: raw, OccurredAt: at}, nil
}
