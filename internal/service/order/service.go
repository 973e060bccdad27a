package order

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/observability/telemetry"
	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/internal/service/events"
)

type Service struct {
	repo     ports.OrderRepository
	vendors  ports.VendorRepository
	payments ports.PaymentGateway
	notifier ports.OrderNotifier
	events   *events.Publisher
	currency string
	log      *zap.Logger
}

// NewService accepts nil payments or notifier; checkout and emails are then disabled.
func NewService(
	repo ports.OrderRepository,
	vendors ports.VendorRepository,
	payments ports.PaymentGateway,
	notifier ports.OrderNotifier,
	publisher *events.Publisher,
	defaultCurrency string,
	log *zap.Logger,
) ports.OrderService {
	return &Service{
		repo:     repo,
		vendors:  vendors,
		payments: payments,
		notifier: notifier,
		events:   publisher,
		currency: defaultCurrency,
		log:      log,
	}
}

// List returns the vendor's orders, newest first.
func (s *Service) List(ctx context.Context, vendorID string) ([]domain.Order, error) {
	orders, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *Service) Get(ctx context.Context, vendorID, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, vendorID, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	order, err := s.Get(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status

	s.changed(ctx, order)
	return order, nil
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, vendorID, id string, status domain.PaymentStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	order, err := s.Get(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == status {
		return order, nil
	}

	if status == domain.PaymentRefunded && order.PaymentIntentID != "" && s.payments != nil {
		if err := s.payments.RefundPayment(ctx, order.PaymentIntentID); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	order.PaymentStatus = status

	s.changed(ctx, order)
	return order, nil
}

// Checkout opens a payment intent for the order total and records its ID on the order.
func (s *Service) Checkout(ctx context.Context, vendorID, id string) (*domain.PaymentIntent, error) {
	if s.payments == nil {
		return nil, fmt.Errorf("%w: payments not configured", domain.ErrUpstream)
	}

	order, err := s.Get(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return nil, fmt.Errorf("%w: order already paid", domain.ErrInvalidState)
	}
	if order.Status == domain.OrderCancelled {
		return nil, fmt.Errorf("%w: order cancelled", domain.ErrInvalidState)
	}
	if !order.Total.IsPositive() {
		return nil, fmt.Errorf("%w: order total must be positive", domain.ErrInvalidInput)
	}

	currency := order.Currency
	if currency == "" {
		currency = s.currency
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, order.Total, currency, map[string]string{
		"order_id":  order.ID,
		"vendor_id": vendorID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if err := s.repo.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return nil, fmt.Errorf("failed to store payment intent: %w", err)
	}

	s.log.Info("Checkout started",
		zap.String("order_id", order.ID),
		zap.String("payment_intent_id", intent.ID),
	)
	return intent, nil
}

func (s *Service) changed(ctx context.Context, order *domain.Order) {
	telemetry.OrderStatusChanges.WithLabelValues(string(order.Status)).Inc()

	s.events.Publish(domain.SubjectOrderStatusChanged, order.VendorID, map[string]interface{}{
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})

	if s.notifier == nil || order.CustomerEmail == "" {
		return
	}

	businessName := "MRU Merchant"
	if s.vendors != nil {
		if vendor, err := s.vendors.FindByID(ctx, order.VendorID); err == nil && vendor != nil {
			businessName = vendor.BusinessName
		}
	}

	if err := s.notifier.NotifyOrderStatus(ctx, order, businessName); err != nil {
		s.log.Warn("Failed to email order update",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
