package mocks

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

// MockAuthService is a mock implementation of AuthService interface
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, in ports.RegisterInput) (*domain.User, *domain.Vendor, error)
	LoginFunc         func(ctx context.Context, email, password string) (string, string, error)
	RefreshTokenFunc  func(ctx context.Context, refreshToken string) (string, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*domain.Principal, error)
	LogoutFunc        func(ctx context.Context, token string) error
}

func (m *MockAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, *domain.Vendor, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return &domain.User{Email: in.Email, Name: in.Name}, &domain.Vendor{BusinessName: in.BusinessName}, nil
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "access", "refresh", nil
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return "access", nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.Principal, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, domain.ErrUnauthorized
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

// MockVoiceAssistant is a mock implementation of VoiceAssistant interface
type MockVoiceAssistant struct {
	CopyFunc             func(locale string) domain.VoiceCopySet
	SessionFunc          func(ctx context.Context, merchantID string) (*domain.VoiceSession, error)
	StartListeningFunc   func(ctx context.Context, merchantID, locale string) (*domain.VoiceSession, error)
	SubmitTranscriptFunc func(ctx context.Context, merchantID, transcript string) (*domain.VoiceSession, error)
	ConfirmFunc          func(ctx context.Context, merchantID string) (*ports.VoiceConfirmation, error)
	CancelFunc           func(ctx context.Context, merchantID string) (*domain.VoiceSession, error)
	CheckBalanceFunc     func(ctx context.Context, merchantID string) (*domain.VoiceSession, error)
	HistoryFunc          func(ctx context.Context, merchantID string, limit int) ([]domain.VoiceTransaction, error)
}

func (m *MockVoiceAssistant) Copy(locale string) domain.VoiceCopySet {
	if m.CopyFunc != nil {
		return m.CopyFunc(locale)
	}
	return domain.VoiceCopySet{}
}

func (m *MockVoiceAssistant) Session(ctx context.Context, merchantID string) (*domain.VoiceSession, error) {
	if m.SessionFunc != nil {
		return m.SessionFunc(ctx, merchantID)
	}
	return &domain.VoiceSession{MerchantID: merchantID, State: domain.VoiceStateIdle}, nil
}

func (m *MockVoiceAssistant) StartListening(ctx context.Context, merchantID, locale string) (*domain.VoiceSession, error) {
	if m.StartListeningFunc != nil {
		return m.StartListeningFunc(ctx, merchantID, locale)
	}
	return &domain.VoiceSession{MerchantID: merchantID, State: domain.VoiceStateListening, Locale: domain.Locale(locale)}, nil
}

func (m *MockVoiceAssistant) SubmitTranscript(ctx context.Context, merchantID, transcript string) (*domain.VoiceSession, error) {
	if m.SubmitTranscriptFunc != nil {
		return m.SubmitTranscriptFunc(ctx, merchantID, transcript)
	}
	return &domain.VoiceSession{MerchantID: merchantID, State: domain.VoiceStateIdle, Transcript: transcript}, nil
}

func (m *MockVoiceAssistant) Confirm(ctx context.Context, merchantID string) (*ports.VoiceConfirmation, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, merchantID)
	}
	return nil, domain.ErrInvalidState
}

func (m *MockVoiceAssistant) Cancel(ctx context.Context, merchantID string) (*domain.VoiceSession, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, merchantID)
	}
	return &domain.VoiceSession{MerchantID: merchantID, State: domain.VoiceStateIdle}, nil
}

func (m *MockVoiceAssistant) CheckBalance(ctx context.Context, merchantID string) (*domain.VoiceSession, error) {
	if m.CheckBalanceFunc != nil {
		return m.CheckBalanceFunc(ctx, merchantID)
	}
	return &domain.VoiceSession{MerchantID: merchantID, State: domain.VoiceStateIdle}, nil
}

func (m *MockVoiceAssistant) History(ctx context.Context, merchantID string, limit int) ([]domain.VoiceTransaction, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, merchantID, limit)
	}
	return []domain.VoiceTransaction{}, nil
}

// MockLedgerService is a mock implementation of LedgerService interface
type MockLedgerService struct {
	TodayFunc   func() time.Time
	VATFunc     func(amount decimal.Decimal) decimal.Decimal
	ViewFunc    func(ctx context.Context, merchantID string, filter domain.LedgerFilter) (*domain.LedgerView, error)
	EntriesFunc func(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error)
	AppendFunc  func(ctx context.Context, entry *domain.LedgerEntry) error
	ExportFunc  func(ctx context.Context, merchantID string, filter domain.LedgerFilter, w io.Writer) error

	mu       sync.Mutex
	Appended []domain.LedgerEntry
}

func (m *MockLedgerService) Today() time.Time {
	if m.TodayFunc != nil {
		return m.TodayFunc()
	}
	return time.Now()
}

func (m *MockLedgerService) VAT(amount decimal.Decimal) decimal.Decimal {
	if m.VATFunc != nil {
		return m.VATFunc(amount)
	}
	return decimal.Zero
}

func (m *MockLedgerService) View(ctx context.Context, merchantID string, filter domain.LedgerFilter) (*domain.LedgerView, error) {
	if m.ViewFunc != nil {
		return m.ViewFunc(ctx, merchantID, filter)
	}
	return &domain.LedgerView{Filter: filter, Groups: []domain.LedgerGroup{}}, nil
}

func (m *MockLedgerService) Entries(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error) {
	if m.EntriesFunc != nil {
		return m.EntriesFunc(ctx, merchantID)
	}
	return []domain.LedgerEntry{}, nil
}

func (m *MockLedgerService) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	m.mu.Lock()
	m.Appended = append(m.Appended, *entry)
	m.mu.Unlock()
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

func (m *MockLedgerService) Export(ctx context.Context, merchantID string, filter domain.LedgerFilter, w io.Writer) error {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, merchantID, filter, w)
	}
	return nil
}

// MockCatalogService is a mock implementation of CatalogService interface
type MockCatalogService struct {
	CreateFunc            func(ctx context.Context, vendorID string, in domain.ProductInput) (*domain.Product, error)
	UpdateFunc            func(ctx context.Context, vendorID, id string, in domain.ProductInput) (*domain.Product, error)
	ListFunc              func(ctx context.Context, vendorID string) ([]domain.Product, error)
	DeleteFunc            func(ctx context.Context, vendorID, id string) error
	AdjustStockByNameFunc func(ctx context.Context, vendorID, name string, delta int) (*domain.Product, error)
}

func (m *MockCatalogService) Create(ctx context.Context, vendorID string, in domain.ProductInput) (*domain.Product, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, vendorID, in)
	}
	return &domain.Product{VendorID: vendorID, Name: in.Name, Price: in.Price, Stock: in.Stock, IsActive: true}, nil
}

func (m *MockCatalogService) Update(ctx context.Context, vendorID, id string, in domain.ProductInput) (*domain.Product, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, vendorID, id, in)
	}
	return &domain.Product{ID: id, VendorID: vendorID, Name: in.Name, Price: in.Price, Stock: in.Stock, IsActive: true}, nil
}

func (m *MockCatalogService) List(ctx context.Context, vendorID string) ([]domain.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, vendorID)
	}
	return []domain.Product{}, nil
}

func (m *MockCatalogService) Delete(ctx context.Context, vendorID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, vendorID, id)
	}
	return nil
}

func (m *MockCatalogService) AdjustStockByName(ctx context.Context, vendorID, name string, delta int) (*domain.Product, error) {
	if m.AdjustStockByNameFunc != nil {
		return m.AdjustStockByNameFunc(ctx, vendorID, name, delta)
	}
	return nil, domain.ErrNotFound
}

// MockOrderService is a mock implementation of OrderService interface
type MockOrderService struct {
	ListFunc                func(ctx context.Context, vendorID string) ([]domain.Order, error)
	GetFunc                 func(ctx context.Context, vendorID, id string) (*domain.Order, error)
	UpdateStatusFunc        func(ctx context.Context, vendorID, id string, status domain.OrderStatus) (*domain.Order, error)
	UpdatePaymentStatusFunc func(ctx context.Context, vendorID, id string, status domain.PaymentStatus) (*domain.Order, error)
	CheckoutFunc            func(ctx context.Context, vendorID, id string) (*domain.PaymentIntent, error)
}

func (m *MockOrderService) List(ctx context.Context, vendorID string) ([]domain.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, vendorID)
	}
	return []domain.Order{}, nil
}

func (m *MockOrderService) Get(ctx context.Context, vendorID, id string) (*domain.Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, vendorID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, vendorID, id string, status domain.OrderStatus) (*domain.Order, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, vendorID, id, status)
	}
	return &domain.Order{ID: id, VendorID: vendorID, Status: status}, nil
}

func (m *MockOrderService) UpdatePaymentStatus(ctx context.Context, vendorID, id string, status domain.PaymentStatus) (*domain.Order, error) {
	if m.UpdatePaymentStatusFunc != nil {
		return m.UpdatePaymentStatusFunc(ctx, vendorID, id, status)
	}
	return &domain.Order{ID: id, VendorID: vendorID, PaymentStatus: status}, nil
}

func (m *MockOrderService) Checkout(ctx context.Context, vendorID, id string) (*domain.PaymentIntent, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, vendorID, id)
	}
	return &domain.PaymentIntent{ID: "pi_mock", ClientSecret: "pi_mock_secret"}, nil
}

// MockWalletService is a mock implementation of WalletService interface
type MockWalletService struct {
	OverviewFunc func(ctx context.Context, merchantID string) (*domain.WalletOverview, error)
}

func (m *MockWalletService) Overview(ctx context.Context, merchantID string) (*domain.WalletOverview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx, merchantID)
	}
	return &domain.WalletOverview{Providers: []domain.MobileMoneyProvider{}, Weekly: []domain.DailyFlow{}}, nil
}

// MockInsightService is a mock implementation of InsightService interface
type MockInsightService struct {
	ListFunc    func(ctx context.Context, merchantID, locale string) ([]domain.Insight, error)
	DismissFunc func(ctx context.Context, merchantID, insightID string) error
	ResetFunc   func(ctx context.Context, merchantID string) error
}

func (m *MockInsightService) List(ctx context.Context, merchantID, locale string) ([]domain.Insight, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, merchantID, locale)
	}
	return []domain.Insight{}, nil
}

func (m *MockInsightService) Dismiss(ctx context.Context, merchantID, insightID string) error {
	if m.DismissFunc != nil {
		return m.DismissFunc(ctx, merchantID, insightID)
	}
	return nil
}

func (m *MockInsightService) Reset(ctx context.Context, merchantID string) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, merchantID)
	}
	return nil
}

// MockStoreGenerator is a mock implementation of StoreGenerator interface
type MockStoreGenerator struct {
	GenerateFunc func(ctx context.Context, description string) (*domain.StoreConfig, error)
}

func (m *MockStoreGenerator) Generate(ctx context.Context, description string) (*domain.StoreConfig, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, description)
	}
	return &domain.StoreConfig{StoreName: "Mock Store"}, nil
}

// MockDashboardService is a mock implementation of DashboardService interface
type MockDashboardService struct {
	SummaryFunc func(ctx context.Context, merchantID string) (*domain.DashboardSummary, error)
}

func (m *MockDashboardService) Summary(ctx context.Context, merchantID string) (*domain.DashboardSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, merchantID)
	}
	return &domain.DashboardSummary{}, nil
}

// MockPaymentGateway is a mock implementation of PaymentGateway interface
type MockPaymentGateway struct {
	CreatePaymentIntentFunc func(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.PaymentIntent, error)
	RefundPaymentFunc       func(ctx context.Context, paymentID string) error
	ParseWebhookFunc        func(payload []byte, signature string) (*domain.PaymentEvent, error)
}

func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, amount, currency, metadata)
	}
	return &domain.PaymentIntent{ID: "pi_mock", ClientSecret: "pi_mock_secret", Amount: amount, Currency: currency}, nil
}

func (m *MockPaymentGateway) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if m.ParseWebhookFunc != nil {
		return m.ParseWebhookFunc(payload, signature)
	}
	return nil, domain.ErrUnauthorized
}

func (m *MockPaymentGateway) RefundPayment(ctx context.Context, paymentID string) error {
	if m.RefundPaymentFunc != nil {
		return m.RefundPaymentFunc(ctx, paymentID)
	}
	return nil
}

// MockOrderNotifier records order notifications
type MockOrderNotifier struct {
	NotifyOrderStatusFunc func(ctx context.Context, order *domain.Order, businessName string) error

	mu       sync.Mutex
	Notified []string
}

func (m *MockOrderNotifier) NotifyOrderStatus(ctx context.Context, order *domain.Order, businessName string) error {
	m.mu.Lock()
	m.Notified = append(m.Notified, order.ID)
	m.mu.Unlock()
	if m.NotifyOrderStatusFunc != nil {
		return m.NotifyOrderStatusFunc(ctx, order, businessName)
	}
	return nil
}
