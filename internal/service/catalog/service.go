package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/internal/service/events"
)

const minNameLength = 2

type Service struct {
	repo   ports.ProductRepository
	events *events.Publisher
	log    *zap.Logger
}

func NewService(repo ports.ProductRepository, publisher *events.Publisher, log *zap.Logger) ports.CatalogService {
	return &Service{repo: repo, events: publisher, log: log}
}

// Validate normalises in and checks the product rules.
func Validate(in *domain.ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.SKU = strings.TrimSpace(in.SKU)

	if utf8.RuneCountInString(in.Name) < minNameLength {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, domain.ErrProductName)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, domain.ErrNegativePrice)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, domain.ErrNegativeStock)
	}

	images := in.Images[:0]
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	in.Images = images
	return nil
}

func (s *Service) Create(ctx context.Context, vendorID string, in domain.ProductInput) (*domain.Product, error) {
	if err := Validate(&in); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:        uuid.New().String(),
		VendorID:  vendorID,
		CreatedAt: now,
		IsActive:  true,
	}
	apply(product, in, now)

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.log.Info("Product created",
		zap.String("vendor_id", vendorID),
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
	)
	return product, nil
}

func (s *Service) Update(ctx context.Context, vendorID, id string, in domain.ProductInput) (*domain.Product, error) {
	if err := Validate(&in); err != nil {
		return nil, err
	}

	product, err := s.owned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	apply(product, in, time.Now())

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *Service) List(ctx context.Context, vendorID string) ([]domain.Product, error) {
	return s.repo.FindActiveByVendor(ctx, vendorID)
}

// Delete is a soft delete: the product stays referenced by past orders.
func (s *Service) Delete(ctx context.Context, vendorID, id string) error {
	if _, err := s.owned(ctx, vendorID, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, vendorID, id)
}

// AdjustStockByName applies delta to the vendor's active product with that name (case-insensitive).
// Stock never drops below zero.
func (s *Service) AdjustStockByName(ctx context.Context, vendorID, name string, delta int) (*domain.Product, error) {
	product, err := s.repo.FindByVendorAndName(ctx, vendorID, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if product.Stock+delta < 0 {
		delta = -product.Stock
	}
	if delta == 0 {
		return product, nil
	}

	if err := s.repo.AdjustStock(ctx, product.ID, delta); err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	product.Stock += delta

	s.events.Publish(domain.SubjectProductStockAdjusted, vendorID, map[string]interface{}{
		"product_id": product.ID,
		"delta":      delta,
		"stock":      product.Stock,
	})
	return product, nil
}

func (s *Service) owned(ctx context.Context, vendorID, id string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, domain.ErrNotFound
	}
	if product.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func apply(p *domain.Product, in domain.ProductInput, now time.Time) {
	p.Name = in.Name
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.Stock = in.Stock
	p.Category = in.Category
	p.SKU = in.SKU
	p.Images = in.Images
	p.UpdatedAt = now
}
