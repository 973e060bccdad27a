package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mru-labs/merchant-os/internal/domain"
)

// TextGenerator sends one prompt to a generative language model and returns its text reply.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.PaymentIntent, error)
	RefundPayment(ctx context.Context, paymentID string) error
}

// PaymentWebhooks verifies and decodes gateway callbacks.
type PaymentWebhooks interface {
	ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error)
}

// OrderNotifier tells a customer that their order moved.
type OrderNotifier interface {
	NotifyOrderStatus(ctx context.Context, order *domain.Order, businessName string) error
}

// SecretProvider resolves secrets by key from an external store.
type SecretProvider interface {
	GetSecret(ctx context.Context, key string) (string, error)
}
