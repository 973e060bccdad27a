package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type OrderRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderRepository(db *gorm.DB, log *zap.Logger) ports.OrderRepository {
	return &OrderRepository{db: db, log: log}
}

// Save writes the order and its items together.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByVendor(ctx context.Context, vendorID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return r.updateColumn(ctx, id, "status", status)
}

func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	return r.updateColumn(ctx, id, "payment_status", status)
}

func (r *OrderRepository) SetPaymentIntent(ctx context.Context, id, intentID string) error {
	return r.updateColumn(ctx, id, "payment_intent_id", intentID)
}

func (r *OrderRepository) CountByStatus(ctx context.Context, vendorID string, status domain.OrderStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("vendor_id = ? AND status = ?", vendorID, status).
		Count(&n).Error
	return n, err
}

func (r *OrderRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
