package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/infrastructure/circuitbreaker"
	"github.com/mru-labs/merchant-os/internal/ports"
)

// Stripe charges these currencies in whole units.
var zeroDecimal = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

type Options struct {
	APIKey        string
	WebhookSecret string
	// Backends overrides the Stripe endpoints. nil uses the Stripe defaults.
	Backends *stripe.Backends
}

type StripeService struct {
	api           *client.API
	webhookSecret string
	breaker       *gobreaker.CircuitBreaker
	log           *zap.Logger
}

var (
	_ ports.PaymentGateway  = (*StripeService)(nil)
	_ ports.PaymentWebhooks = (*StripeService)(nil)
)

// NewStripeService builds a gateway on its own client. breaker may be nil.
func NewStripeService(opts Options, breaker *gobreaker.CircuitBreaker, log *zap.Logger) *StripeService {
	return &StripeService{
		api:           client.New(opts.APIKey, opts.Backends),
		webhookSecret: opts.WebhookSecret,
		breaker:       breaker,
		log:           log,
	}
}

// MinorUnits converts amount to the smallest currency unit Stripe expects.
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	if zeroDecimal[strings.ToLower(currency)] {
		return amount.Round(0).IntPart()
	}
	return amount.Shift(2).Round(0).IntPart()
}

func (s *StripeService) execute(fn func() (interface{}, error)) (interface{}, error) {
	if s.breaker == nil {
		return fn()
	}
	out, err := s.breaker.Execute(fn)
	return out, circuitbreaker.Translate(err)
}

func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, errors.New("invalid amount")
	}
	currency = strings.ToLower(currency)

	s.log.Info("Creating payment intent",
		zap.String("amount", amount.String()),
		zap.String("currency", currency),
	)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(amount, currency)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	out, err := s.execute(func() (interface{}, error) {
		return s.api.PaymentIntents.New(params)
	})
	if err != nil {
		s.log.Error("Failed to create payment intent", zap.Error(err))
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	pi := out.(*stripe.PaymentIntent)

	s.log.Info("Payment intent created",
		zap.String("payment_intent_id", pi.ID),
		zap.String("status", string(pi.Status)),
	)

	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Currency:     currency,
		Status:       string(pi.Status),
	}, nil
}

func (s *StripeService) RefundPayment(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return errors.New("payment ID is required")
	}

	s.log.Info("Refunding payment", zap.String("payment_id", paymentID))

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
	}
	params.Context = ctx

	out, err := s.execute(func() (interface{}, error) {
		return s.api.Refunds.New(params)
	})
	if err != nil {
		s.log.Error("Failed to refund payment", zap.String("payment_id", paymentID), zap.Error(err))
		return fmt.Errorf("stripe: refund payment: %w", err)
	}
	r := out.(*stripe.Refund)

	s.log.Info("Payment refunded",
		zap.String("refund_id", r.ID),
		zap.String("status", string(r.Status)),
	)

	return nil
}

// ParseWebhook verifies the Stripe-Signature header and maps payment intent outcomes
// onto order payment statuses. Other event types come back with an empty Status.
func (s *StripeService) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if s.webhookSecret == "" {
		return nil, errors.New("stripe: webhook secret not configured")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	out := &domain.PaymentEvent{Type: string(event.Type)}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: payment intent payload: %v", domain.ErrInvalidInput, err)
		}
		out.PaymentIntentID = pi.ID
		out.OrderID = pi.Metadata["order_id"]
		out.VendorID = pi.Metadata["vendor_id"]
		out.Status = domain.PaymentPaid
		if event.Type == "payment_intent.payment_failed" {
			out.Status = domain.PaymentFailed
		}
	}

	return out, nil
}
