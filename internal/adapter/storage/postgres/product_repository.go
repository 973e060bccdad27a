package postgres

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type ProductRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewProductRepository(db *gorm.DB, log *zap.Logger) ports.ProductRepository {
	return &ProductRepository{db: db, log: log}
}

func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindActiveByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND is_active = ?", vendorID, true).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// FindByVendorAndName matches active products case-insensitively.
func (r *ProductRepository) FindByVendorAndName(ctx context.Context, vendorID, name string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND is_active = ? AND lower(name) = ?", vendorID, true, strings.ToLower(strings.TrimSpace(name))).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Deactivate(ctx context.Context, vendorID, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock applies delta atomically, never going below zero.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("GREATEST(stock + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) CountActive(ctx context.Context, vendorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("vendor_id = ? AND is_active = ?", vendorID, true).
		Count(&n).Error
	return n, err
}
