package payment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"12.34", "usd", 1234},
		{"1500", "LRD", 150000},
		{"0.005", "usd", 1},
		{"25000", "GNF", 25000},
		{"99.6", "xof", 100},
	}

	for _, tt := range tests {
		got := MinorUnits(decimal.RequireFromString(tt.amount), tt.currency)
		if got != tt.want {
			t.Errorf("MinorUnits(%s, %s) = %d, want %d", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	// Arrange
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","client_secret":"pi_123_secret_abc","status":"requires_payment_method"}`))
	}))
	defer srv.Close()

	backends := &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{URL: stripe.String(srv.URL)}),
	}
	gateway := NewStripeService(Options{APIKey: "sk_test_123", Backends: backends}, nil, newTestLogger())

	// Act
	intent, err := gateway.CreatePaymentIntent(context.Background(), decimal.RequireFromString("45.50"), "USD", map[string]string{"order_id": "ord-1"})

	// Assert
	if err != nil {
		t.Fatalf("CreatePaymentIntent() error = %v", err)
	}
	if intent.ID != "pi_123" || intent.ClientSecret != "pi_123_secret_abc" {
		t.Errorf("intent = %+v", intent)
	}
	if form.Get("amount") != "4550" || form.Get("currency") != "usd" {
		t.Errorf("form = %v", form)
	}
	if form.Get("metadata[order_id]") != "ord-1" {
		t.Errorf("metadata not sent: %v", form)
	}
}

func TestCreatePaymentIntent_RejectsNonPositive(t *testing.T) {
	gateway := NewStripeService(Options{APIKey: "sk_test_123"}, nil, newTestLogger())

	if _, err := gateway.CreatePaymentIntent(context.Background(), decimal.Zero, "usd", nil); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func signed(secret, payload string) (string, []byte) {
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return sp.Header, sp.Payload
}

func TestParseWebhook(t *testing.T) {
	gateway := NewStripeService(Options{APIKey: "sk_test", WebhookSecret: "whsec_test"}, nil, newTestLogger())

	tests := []struct {
		name       string
		payload    string
		wantStatus domain.PaymentStatus
		wantOrder  string
	}{
		{
			name:       "succeeded",
			payload:    `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent","metadata":{"order_id":"ord-1","vendor_id":"v-1"}}}}`,
			wantStatus: domain.PaymentPaid,
			wantOrder:  "ord-1",
		},
		{
			name:       "failed",
			payload:    `{"id":"evt_2","object":"event","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_2","object":"payment_intent","metadata":{"order_id":"ord-2","vendor_id":"v-1"}}}}`,
			wantStatus: domain.PaymentFailed,
			wantOrder:  "ord-2",
		},
		{
			name:    "ignored type",
			payload: `{"id":"evt_3","object":"event","type":"customer.created","data":{"object":{"id":"cus_1","object":"customer"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body := signed("whsec_test", tt.payload)

			ev, err := gateway.ParseWebhook(body, header)

			if err != nil {
				t.Fatalf("ParseWebhook() error = %v", err)
			}
			if ev.Status != tt.wantStatus || ev.OrderID != tt.wantOrder {
				t.Errorf("event = %+v", ev)
			}
		})
	}
}

func TestParseWebhook_Rejects(t *testing.T) {
	gateway := NewStripeService(Options{APIKey: "sk_test", WebhookSecret: "whsec_test"}, nil, newTestLogger())
	header, body := signed("whsec_other", `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{}}}`)

	if _, err := gateway.ParseWebhook(body, header); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("forged signature error = %v, want ErrUnauthorized", err)
	}

	unconfigured := NewStripeService(Options{APIKey: "sk_test"}, nil, newTestLogger())
	if _, err := unconfigured.ParseWebhook(body, header); err == nil {
		t.Error("expected error without webhook secret")
	}
}
