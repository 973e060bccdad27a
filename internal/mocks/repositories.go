package mocks

import (
	"context"
	"sync"

	"github.com/mru-labs/merchant-os/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

// MockVendorRepository is a mock implementation of VendorRepository
type MockVendorRepository struct {
	SaveFunc         func(ctx context.Context, vendor *domain.Vendor) error
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Vendor, error)
	FindByUserIDFunc func(ctx context.Context, userID string) (*domain.Vendor, error)
}

func (m *MockVendorRepository) Save(ctx context.Context, vendor *domain.Vendor) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, vendor)
	}
	return nil
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id string) (*domain.Vendor, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockVendorRepository) FindByUserID(ctx context.Context, userID string) (*domain.Vendor, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

// MockLedgerRepository keeps entries in memory unless a func field overrides it
type MockLedgerRepository struct {
	mu      sync.Mutex
	Entries []domain.LedgerEntry

	SaveFunc                func(ctx context.Context, entry *domain.LedgerEntry) error
	FindByMerchantFunc      func(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error)
	FindByMerchantSinceFunc func(ctx context.Context, merchantID, since string) ([]domain.LedgerEntry, error)
}

func (m *MockLedgerRepository) Save(ctx context.Context, entry *domain.LedgerEntry) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, entry)
	}
	m.mu.Lock()
	m.Entries = append(m.Entries, *entry)
	m.mu.Unlock()
	return nil
}

func (m *MockLedgerRepository) SaveBatch(ctx context.Context, entries []domain.LedgerEntry) error {
	for i := range entries {
		if err := m.Save(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockLedgerRepository) FindByMerchant(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error) {
	if m.FindByMerchantFunc != nil {
		return m.FindByMerchantFunc(ctx, merchantID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range m.Entries {
		if e.MerchantID == merchantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockLedgerRepository) FindByMerchantSince(ctx context.Context, merchantID, since string) ([]domain.LedgerEntry, error) {
	if m.FindByMerchantSinceFunc != nil {
		return m.FindByMerchantSinceFunc(ctx, merchantID, since)
	}
	all, err := m.FindByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	var out []domain.LedgerEntry
	for _, e := range all {
		if e.Date >= since {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	SaveFunc                func(ctx context.Context, product *domain.Product) error
	UpdateFunc              func(ctx context.Context, product *domain.Product) error
	FindByIDFunc            func(ctx context.Context, id string) (*domain.Product, error)
	FindActiveByVendorFunc  func(ctx context.Context, vendorID string) ([]domain.Product, error)
	FindByVendorAndNameFunc func(ctx context.Context, vendorID, name string) (*domain.Product, error)
	DeactivateFunc          func(ctx context.Context, vendorID, id string) error
	AdjustStockFunc         func(ctx context.Context, id string, delta int) error
	CountActiveFunc         func(ctx context.Context, vendorID string) (int64, error)
}

func (m *MockProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, product)
	}
	return nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, product)
	}
	return nil
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepository) FindActiveByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	if m.FindActiveByVendorFunc != nil {
		return m.FindActiveByVendorFunc(ctx, vendorID)
	}
	return []domain.Product{}, nil
}

func (m *MockProductRepository) FindByVendorAndName(ctx context.Context, vendorID, name string) (*domain.Product, error) {
	if m.FindByVendorAndNameFunc != nil {
		return m.FindByVendorAndNameFunc(ctx, vendorID, name)
	}
	return nil, nil
}

func (m *MockProductRepository) Deactivate(ctx context.Context, vendorID, id string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, vendorID, id)
	}
	return nil
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	if m.AdjustStockFunc != nil {
		return m.AdjustStockFunc(ctx, id, delta)
	}
	return nil
}

func (m *MockProductRepository) CountActive(ctx context.Context, vendorID string) (int64, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx, vendorID)
	}
	return 0, nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	SaveFunc                func(ctx context.Context, order *domain.Order) error
	FindByIDFunc            func(ctx context.Context, id string) (*domain.Order, error)
	FindByVendorFunc        func(ctx context.Context, vendorID string) ([]domain.Order, error)
	UpdateStatusFunc        func(ctx context.Context, id string, status domain.OrderStatus) error
	UpdatePaymentStatusFunc func(ctx context.Context, id string, status domain.PaymentStatus) error
	SetPaymentIntentFunc    func(ctx context.Context, id, intentID string) error
	CountByStatusFunc       func(ctx context.Context, vendorID string, status domain.OrderStatus) (int64, error)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepository) FindByVendor(ctx context.Context, vendorID string) ([]domain.Order, error) {
	if m.FindByVendorFunc != nil {
		return m.FindByVendorFunc(ctx, vendorID)
	}
	return []domain.Order{}, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	if m.UpdatePaymentStatusFunc != nil {
		return m.UpdatePaymentStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockOrderRepository) SetPaymentIntent(ctx context.Context, id, intentID string) error {
	if m.SetPaymentIntentFunc != nil {
		return m.SetPaymentIntentFunc(ctx, id, intentID)
	}
	return nil
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, vendorID string, status domain.OrderStatus) (int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, vendorID, status)
	}
	return 0, nil
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	SaveProviderFunc  func(ctx context.Context, provider *domain.MobileMoneyProvider) error
	FindProvidersFunc func(ctx context.Context, merchantID string) ([]domain.MobileMoneyProvider, error)
}

func (m *MockWalletRepository) SaveProvider(ctx context.Context, provider *domain.MobileMoneyProvider) error {
	if m.SaveProviderFunc != nil {
		return m.SaveProviderFunc(ctx, provider)
	}
	return nil
}

func (m *MockWalletRepository) FindProviders(ctx context.Context, merchantID string) ([]domain.MobileMoneyProvider, error) {
	if m.FindProvidersFunc != nil {
		return m.FindProvidersFunc(ctx, merchantID)
	}
	return []domain.MobileMoneyProvider{}, nil
}

// MockVoiceTransactionRepository is a mock implementation of VoiceTransactionRepository
type MockVoiceTransactionRepository struct {
	mu    sync.Mutex
	Saved []domain.VoiceTransaction

	SaveFunc           func(ctx context.Context, vt *domain.VoiceTransaction) error
	FindByMerchantFunc func(ctx context.Context, merchantID string, limit int) ([]domain.VoiceTransaction, error)
}

func (m *MockVoiceTransactionRepository) Save(ctx context.Context, vt *domain.VoiceTransaction) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, vt)
	}
	m.mu.Lock()
	m.Saved = append(m.Saved, *vt)
	m.mu.Unlock()
	return nil
}

func (m *MockVoiceTransactionRepository) FindByMerchant(ctx context.Context, merchantID string, limit int) ([]domain.VoiceTransaction, error) {
	if m.FindByMerchantFunc != nil {
		return m.FindByMerchantFunc(ctx, merchantID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.VoiceTransaction
	for _, vt := range m.Saved {
		if vt.MerchantID == merchantID {
			out = append(out, vt)
		}
	}
	return out, nil
}
