package ports

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mru-labs/merchant-os/internal/domain"
)

type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	BusinessName string `json:"business_name"`
	Locale       string `json:"locale"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, *domain.Vendor, error)
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.Principal, error)
	Logout(ctx context.Context, token string) error
}

// VoiceConfirmation is the outcome of confirming a voice draft.
type VoiceConfirmation struct {
	Session *domain.VoiceSession `json:"session"`
	Entry   *domain.LedgerEntry  `json:"entry"`
	Message string               `json:"message"`
}

type VoiceAssistant interface {
	Copy(locale string) domain.VoiceCopySet
	Session(ctx context.Context, merchantID string) (*domain.VoiceSession, error)
	StartListening(ctx context.Context, merchantID, locale string) (*domain.VoiceSession, error)
	SubmitTranscript(ctx context.Context, merchantID, transcript string) (*domain.VoiceSession, error)
	Confirm(ctx context.Context, merchantID string) (*VoiceConfirmation, error)
	Cancel(ctx context.Context, merchantID string) (*domain.VoiceSession, error)
	CheckBalance(ctx context.Context, merchantID string) (*domain.VoiceSession, error)
	History(ctx context.Context, merchantID string, limit int) ([]domain.VoiceTransaction, error)
}

type LedgerService interface {
	Today() time.Time
	VAT(amount decimal.Decimal) decimal.Decimal
	View(ctx context.Context, merchantID string, filter domain.LedgerFilter) (*domain.LedgerView, error)
	Entries(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error)
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	Export(ctx context.Context, merchantID string, filter domain.LedgerFilter, w io.Writer) error
}

type CatalogService interface {
	Create(ctx context.Context, vendorID string, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, vendorID, id string, in domain.ProductInput) (*domain.Product, error)
	List(ctx context.Context, vendorID string) ([]domain.Product, error)
	Delete(ctx context.Context, vendorID, id string) error
	AdjustStockByName(ctx context.Context, vendorID, name string, delta int) (*domain.Product, error)
}

type OrderService interface {
	List(ctx context.Context, vendorID string) ([]domain.Order, error)
	Get(ctx context.Context, vendorID, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, vendorID, id string, status domain.OrderStatus) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, vendorID, id string, status domain.PaymentStatus) (*domain.Order, error)
	Checkout(ctx context.Context, vendorID, id string) (*domain.PaymentIntent, error)
}

type WalletService interface {
	Overview(ctx context.Context, merchantID string) (*domain.WalletOverview, error)
}

type InsightService interface {
	List(ctx context.Context, merchantID, locale string) ([]domain.Insight, error)
	Dismiss(ctx context.Context, merchantID, insightID string) error
	Reset(ctx context.Context, merchantID string) error
}

type StoreGenerator interface {
	Generate(ctx context.Context, description string) (*domain.StoreConfig, error)
}

type DashboardService interface {
	Summary(ctx context.Context, merchantID string) (*domain.DashboardSummary, error)
}
