package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/mocks"
	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/internal/service/events"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type fixture struct {
	service  ports.OrderService
	repo     *mocks.MockOrderRepository
	payments *mocks.MockPaymentGateway
	notifier *mocks.MockOrderNotifier
	mq       *mocks.MockMessageQueue
}

func newFixture(order *domain.Order) *fixture {
	f := &fixture{
		repo: &mocks.MockOrderRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
				if order != nil && id == order.ID {
					cp := *order
					return &cp, nil
				}
				return nil, nil
			},
		},
		payments: &mocks.MockPaymentGateway{},
		notifier: &mocks.MockOrderNotifier{},
		mq:       mocks.NewMockMessageQueue(),
	}
	vendors := &mocks.MockVendorRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Vendor, error) {
			return &domain.Vendor{ID: id, BusinessName: "Ama Provisions"}, nil
		},
	}
	publisher := events.NewPublisher(f.mq, nil, nil, newTestLogger())
	f.service = NewService(f.repo, vendors, f.payments, f.notifier, publisher, "usd", newTestLogger())
	return f
}

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:            "ord-1",
		VendorID:      "vendor-1",
		CustomerName:  "Musu",
		CustomerEmail: "musu@example.com",
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		Total:         decimal.NewFromInt(1500),
		Currency:      "LRD",
	}
}

func TestList_NewestFirst(t *testing.T) {
	base := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	f := newFixture(nil)
	f.repo.FindByVendorFunc = func(ctx context.Context, vendorID string) ([]domain.Order, error) {
		return []domain.Order{
			{ID: "old", CreatedAt: base.Add(-time.Hour)},
			{ID: "new", CreatedAt: base},
			{ID: "mid", CreatedAt: base.Add(-time.Minute)},
		}, nil
	}

	orders, err := f.service.List(context.Background(), "vendor-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got := []string{orders[0].ID, orders[1].ID, orders[2].ID}
	want := []string{"new", "mid", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestGet_Scoping(t *testing.T) {
	f := newFixture(pendingOrder())

	if _, err := f.service.Get(context.Background(), "vendor-2", "ord-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("other vendor error = %v, want ErrForbidden", err)
	}
	if _, err := f.service.Get(context.Background(), "vendor-1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing error = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	// Arrange
	f := newFixture(pendingOrder())
	var stored domain.OrderStatus
	f.repo.UpdateStatusFunc = func(ctx context.Context, id string, status domain.OrderStatus) error {
		stored = status
		return nil
	}

	// Act
	order, err := f.service.UpdateStatus(context.Background(), "vendor-1", "ord-1", domain.OrderCompleted)

	// Assert
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if stored != domain.OrderCompleted || order.Status != domain.OrderCompleted {
		t.Errorf("stored = %q, order = %q", stored, order.Status)
	}
	if got := len(f.mq.GetPublishedMessages(domain.SubjectOrderStatusChanged)); got != 1 {
		t.Errorf("status events = %d, want 1", got)
	}
	if len(f.notifier.Notified) != 1 {
		t.Errorf("notifications = %d, want 1", len(f.notifier.Notified))
	}
}

func TestUpdateStatus_Invalid(t *testing.T) {
	f := newFixture(pendingOrder())

	_, err := f.service.UpdateStatus(context.Background(), "vendor-1", "ord-1", domain.OrderStatus("shipped"))
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("error = %v, want ErrInvalidStatus", err)
	}
	_, err = f.service.UpdatePaymentStatus(context.Background(), "vendor-1", "ord-1", domain.PaymentStatus("maybe"))
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("error = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateStatus_Unchanged(t *testing.T) {
	f := newFixture(pendingOrder())
	f.repo.UpdateStatusFunc = func(ctx context.Context, id string, status domain.OrderStatus) error {
		t.Error("repository should not be written for an unchanged status")
		return nil
	}

	if _, err := f.service.UpdateStatus(context.Background(), "vendor-1", "ord-1", domain.OrderPending); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if len(f.notifier.Notified) != 0 {
		t.Error("no email expected for an unchanged status")
	}
}

func TestUpdatePaymentStatus_RefundCallsGateway(t *testing.T) {
	order := pendingOrder()
	order.PaymentStatus = domain.PaymentPaid
	order.PaymentIntentID = "pi_9"
	f := newFixture(order)

	var refunded string
	f.payments.RefundPaymentFunc = func(ctx context.Context, paymentID string) error {
		refunded = paymentID
		return nil
	}

	updated, err := f.service.UpdatePaymentStatus(context.Background(), "vendor-1", "ord-1", domain.PaymentRefunded)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus() error = %v", err)
	}
	if refunded != "pi_9" {
		t.Errorf("refunded = %q, want pi_9", refunded)
	}
	if updated.PaymentStatus != domain.PaymentRefunded {
		t.Errorf("PaymentStatus = %q", updated.PaymentStatus)
	}
}

func TestCheckout(t *testing.T) {
	// Arrange
	f := newFixture(pendingOrder())
	var gotCurrency string
	var gotAmount decimal.Decimal
	f.payments.CreatePaymentIntentFunc = func(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
		gotAmount, gotCurrency = amount, currency
		if metadata["order_id"] != "ord-1" {
			t.Errorf("metadata = %v", metadata)
		}
		return &domain.PaymentIntent{ID: "pi_42", ClientSecret: "pi_42_secret"}, nil
	}
	var storedIntent string
	f.repo.SetPaymentIntentFunc = func(ctx context.Context, id, intentID string) error {
		storedIntent = intentID
		return nil
	}

	// Act
	intent, err := f.service.Checkout(context.Background(), "vendor-1", "ord-1")

	// Assert
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if intent.ClientSecret != "pi_42_secret" || storedIntent != "pi_42" {
		t.Errorf("intent = %+v stored = %q", intent, storedIntent)
	}
	if !gotAmount.Equal(decimal.NewFromInt(1500)) || gotCurrency != "LRD" {
		t.Errorf("charged %s %s, want LRD 1500", gotCurrency, gotAmount)
	}
}

func TestCheckout_Rejects(t *testing.T) {
	paid := pendingOrder()
	paid.PaymentStatus = domain.PaymentPaid
	cancelled := pendingOrder()
	cancelled.Status = domain.OrderCancelled
	empty := pendingOrder()
	empty.Total = decimal.Zero

	tests := []struct {
		name    string
		order   *domain.Order
		wantErr error
	}{
		{name: "already paid", order: paid, wantErr: domain.ErrInvalidState},
		{name: "cancelled", order: cancelled, wantErr: domain.ErrInvalidState},
		{name: "zero total", order: empty, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.order)
			_, err := f.service.Checkout(context.Background(), "vendor-1", "ord-1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Checkout() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckout_GatewayFailure(t *testing.T) {
	f := newFixture(pendingOrder())
	f.payments.CreatePaymentIntentFunc = func(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
		return nil, errors.New("card network down")
	}

	if _, err := f.service.Checkout(context.Background(), "vendor-1", "ord-1"); !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("Checkout() error = %v, want ErrUpstream", err)
	}
}
