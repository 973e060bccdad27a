package ports

import (
	"context"

	"github.com/mru-labs/merchant-os/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type VendorRepository interface {
	Save(ctx context.Context, vendor *domain.Vendor) error
	FindByID(ctx context.Context, id string) (*domain.Vendor, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Vendor, error)
}

// LedgerRepository stores ledger entries. Entries are scoped by merchant (vendor) ID.
type LedgerRepository interface {
	Save(ctx context.Context, entry *domain.LedgerEntry) error
	SaveBatch(ctx context.Context, entries []domain.LedgerEntry) error
	FindByMerchant(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error)
	FindByMerchantSince(ctx context.Context, merchantID, since string) ([]domain.LedgerEntry, error)
}

type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindActiveByVendor(ctx context.Context, vendorID string) ([]domain.Product, error)
	FindByVendorAndName(ctx context.Context, vendorID, name string) (*domain.Product, error)
	Deactivate(ctx context.Context, vendorID, id string) error
	AdjustStock(ctx context.Context, id string, delta int) error
	CountActive(ctx context.Context, vendorID string) (int64, error)
}

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByVendor(ctx context.Context, vendorID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	SetPaymentIntent(ctx context.Context, id, intentID string) error
	CountByStatus(ctx context.Context, vendorID string, status domain.OrderStatus) (int64, error)
}

type WalletRepository interface {
	SaveProvider(ctx context.Context, provider *domain.MobileMoneyProvider) error
	FindProviders(ctx context.Context, merchantID string) ([]domain.MobileMoneyProvider, error)
}

type VoiceTransactionRepository interface {
	Save(ctx context.Context, vt *domain.VoiceTransaction) error
	FindByMerchant(ctx context.Context, merchantID string, limit int) ([]domain.VoiceTransaction, error)
}
