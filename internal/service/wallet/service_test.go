package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/mocks"
)

var refDay = time.Date(2026, 2, 9, 14, 30, 0, 0, time.UTC)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func entry(date string, amount int64) domain.LedgerEntry {
	return domain.LedgerEntry{MerchantID: "m1", Date: date, Amount: decimal.NewFromInt(amount)}
}

func TestWeeklyFlow(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry("2026-02-09", 12000),
		entry("2026-02-09", -4000),
		entry("2026-02-08", 4500),
		entry("2026-02-03", -1000),
		entry("2026-02-02", 99999), // outside the window
	}

	days := WeeklyFlow(entries, refDay)

	if len(days) != 7 {
		t.Fatalf("len = %d, want 7", len(days))
	}
	if days[0].Date != "2026-02-03" || days[6].Date != "2026-02-09" {
		t.Errorf("window = %s..%s", days[0].Date, days[6].Date)
	}
	if days[6].Day != "Mon" || days[0].Day != "Tue" {
		t.Errorf("labels = %s..%s", days[0].Day, days[6].Day)
	}
	if !days[6].Credit.Equal(decimal.NewFromInt(12000)) || !days[6].Debit.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("today = %+v", days[6])
	}
	if !days[0].Debit.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("first day debit = %s, want 1000", days[0].Debit)
	}
}

func TestOverview(t *testing.T) {
	// Arrange
	wallets := &mocks.MockWalletRepository{
		FindProvidersFunc: func(ctx context.Context, merchantID string) ([]domain.MobileMoneyProvider, error) {
			return []domain.MobileMoneyProvider{
				{Name: "MTN MoMo", Balance: decimal.NewFromInt(215400), Currency: "LRD"},
				{Name: "Orange Money", Balance: decimal.NewFromInt(109600), Currency: "LRD"},
			}, nil
		},
	}
	ledger := &mocks.MockLedgerRepository{Entries: []domain.LedgerEntry{
		entry("2026-02-09", 12000),
		entry("2026-02-07", -7000),
		entry("2026-01-20", 500),
	}}
	var since string
	ledger.FindByMerchantSinceFunc = func(ctx context.Context, merchantID, s string) ([]domain.LedgerEntry, error) {
		since = s
		return ledger.Entries[:2], nil
	}
	service := NewService(wallets, ledger, func() time.Time { return refDay }, "LRD", newTestLogger())

	// Act
	overview, err := service.Overview(context.Background(), "m1")

	// Assert
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if since != "2026-02-03" {
		t.Errorf("since = %q, want 2026-02-03", since)
	}
	if !overview.TotalBalance.Equal(decimal.NewFromInt(325000)) {
		t.Errorf("TotalBalance = %s, want 325000", overview.TotalBalance)
	}
	if !overview.TotalCredit.Equal(decimal.NewFromInt(12000)) || !overview.TotalDebit.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("credit/debit = %s/%s", overview.TotalCredit, overview.TotalDebit)
	}
	if overview.Currency != "LRD" {
		t.Errorf("Currency = %q", overview.Currency)
	}
}

func TestOverview_NoProviders(t *testing.T) {
	service := NewService(&mocks.MockWalletRepository{}, &mocks.MockLedgerRepository{}, func() time.Time { return refDay }, "GNF", newTestLogger())

	overview, err := service.Overview(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if !overview.TotalBalance.IsZero() || overview.Currency != "GNF" {
		t.Errorf("overview = %+v", overview)
	}
	if len(overview.Weekly) != 7 {
		t.Errorf("Weekly len = %d, want 7", len(overview.Weekly))
	}
}

func TestOverview_RepositoryError(t *testing.T) {
	wallets := &mocks.MockWalletRepository{
		FindProvidersFunc: func(ctx context.Context, merchantID string) ([]domain.MobileMoneyProvider, error) {
			return nil, errors.New("db down")
		},
	}
	service := NewService(wallets, &mocks.MockLedgerRepository{}, nil, "LRD", newTestLogger())

	if _, err := service.Overview(context.Background(), "m1"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
