package domain

import "github.com/shopspring/decimal"

// PaymentIntent is a card payment opened with the gateway for an order.
type PaymentIntent struct {
	ID           string          `json:"id"`
	ClientSecret string          `json:"clientSecret"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
}

// PaymentEvent is a verified gateway webhook mapped onto an order.
// Status is empty for event types the service does not act on.
type PaymentEvent struct {
	Type            string        `json:"type"`
	PaymentIntentID string        `json:"payment_intent_id"`
	OrderID         string        `json:"order_id"`
	VendorID        string        `json:"vendor_id"`
	Status          PaymentStatus `json:"status,omitempty"`
}
