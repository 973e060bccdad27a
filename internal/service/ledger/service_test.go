package ledger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
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

func seededRepo(merchantID string) *mocks.MockLedgerRepository {
	repo := &mocks.MockLedgerRepository{}
	for _, e := range demoLedger() {
		e.MerchantID = merchantID
		repo.Entries = append(repo.Entries, e)
	}
	return repo
}

func newTestService(repo *mocks.MockLedgerRepository, cache ports.Cache, mq ports.MessageQueue) *Service {
	clock := func() time.Time { return refDay }
	publisher := events.NewPublisher(mq, nil, clock, newTestLogger())
	return NewService(repo, cache, publisher, Options{VATRate: 0.07, CacheTTL: time.Minute, Clock: clock}, newTestLogger())
}

func TestView_UsesReferenceClock(t *testing.T) {
	// Arrange
	svc := newTestService(seededRepo("m1"), mocks.NewMockCache(), mocks.NewMockMessageQueue())

	// Act
	view, err := svc.View(context.Background(), "m1", domain.LedgerFilter{Date: domain.DateToday})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Groups) != 1 || view.Groups[0].Label != "Today" {
		t.Fatalf("unexpected groups %+v", view.Groups)
	}
	assertDecimal(t, "sales", view.Totals.Sales, 30000)
}

func TestView_InvalidFilter(t *testing.T) {
	svc := newTestService(seededRepo("m1"), nil, nil)

	_, err := svc.View(context.Background(), "m1", domain.LedgerFilter{Date: "fortnight"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.View(context.Background(), "m1", domain.LedgerFilter{Type: "refund"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEntries_CacheAside(t *testing.T) {
	repo := seededRepo("m1")
	calls := 0
	repo.FindByMerchantFunc = func(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error) {
		calls++
		return demoLedger(), nil
	}
	cache := mocks.NewMockCache()
	svc := newTestService(repo, cache, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.Entries(context.Background(), "m1"); err != nil {
			t.Fatalf("Entries() error = %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("repository called %d times, want 1", calls)
	}
	if !cache.Has("ledger:entries:m1") {
		t.Error("expected ledger to be cached")
	}
}

func TestEntries_RepositoryError(t *testing.T) {
	repo := &mocks.MockLedgerRepository{
		FindByMerchantFunc: func(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(repo, mocks.NewMockCache(), nil)

	if _, err := svc.View(context.Background(), "m1", domain.LedgerFilter{}); err == nil {
		t.Error("expected error")
	}
}

func TestAppend_DefaultsAndInvalidation(t *testing.T) {
	// Arrange
	repo := seededRepo("m1")
	cache := mocks.NewMockCache()
	mq := mocks.NewMockMessageQueue()
	svc := newTestService(repo, cache, mq)
	svc.Entries(context.Background(), "m1") // warm cache

	entry := &domain.LedgerEntry{
		MerchantID:  "m1",
		Type:        domain.EntrySale,
		Description: "  Rice - 1 bag ",
		Amount:      decimal.NewFromInt(4500),
		Tax:         svc.VAT(decimal.NewFromInt(4500)),
		Method:      "Voice",
	}

	// Act
	err := svc.Append(context.Background(), entry)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if entry.ID == "" || entry.Date != "2026-02-09" || entry.Time != "2:30 PM" {
		t.Errorf("defaults not applied: id=%q date=%q time=%q", entry.ID, entry.Date, entry.Time)
	}
	if entry.Description != "Rice - 1 bag" {
		t.Errorf("description not trimmed: %q", entry.Description)
	}
	assertDecimal(t, "tax", entry.Tax, 315)
	if cache.Has("ledger:entries:m1") {
		t.Error("expected cache invalidation")
	}
	if len(mq.GetPublishedMessages(domain.SubjectLedgerEntryCreated)) != 1 {
		t.Error("expected ledger event")
	}

	view, _ := svc.View(context.Background(), "m1", domain.LedgerFilter{Date: domain.DateToday})
	assertDecimal(t, "sales", view.Totals.Sales, 34500)
}

func TestAppend_Validation(t *testing.T) {
	svc := newTestService(&mocks.MockLedgerRepository{}, nil, nil)

	tests := []struct {
		name  string
		entry domain.LedgerEntry
	}{
		{"missing merchant", domain.LedgerEntry{Type: domain.EntrySale, Description: "x"}},
		{"bad type", domain.LedgerEntry{MerchantID: "m1", Type: "refund", Description: "x"}},
		{"bad date", domain.LedgerEntry{MerchantID: "m1", Date: "09/02/2026", Type: domain.EntrySale, Description: "x"}},
		{"empty description", domain.LedgerEntry{MerchantID: "m1", Type: domain.EntrySale, Description: "  "}},
		{"negative tax", domain.LedgerEntry{MerchantID: "m1", Type: domain.EntrySale, Description: "x", Tax: decimal.NewFromInt(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.entry
			if err := svc.Append(context.Background(), &e); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestVAT(t *testing.T) {
	svc := newTestService(&mocks.MockLedgerRepository{}, nil, nil)

	assertDecimal(t, "vat(18000)", svc.VAT(decimal.NewFromInt(18000)), 1260)
	assertDecimal(t, "vat(-25000)", svc.VAT(decimal.NewFromInt(-25000)), 0)
}

func TestFixedClock(t *testing.T) {
	clock, err := FixedClock("2026-02-09", time.UTC)
	if err != nil {
		t.Fatalf("FixedClock() error = %v", err)
	}
	if got := clock().Format(domain.DateLayout); got != "2026-02-09" {
		t.Errorf("clock date = %s", got)
	}

	if _, err := FixedClock("nope", time.UTC); err == nil {
		t.Error("expected parse error")
	}
}

func TestExport_WritesWorkbook(t *testing.T) {
	svc := newTestService(seededRepo("m1"), nil, nil)
	var buf bytes.Buffer

	if err := svc.Export(context.Background(), "m1", domain.LedgerFilter{Date: domain.DateYesterday}, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Ledger")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if rows[0][0] != "Date" || rows[0][3] != "Description" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][3] != "Bouillon cubes - 20 boxes" {
		t.Errorf("first entry = %v", rows[1])
	}
	last := rows[len(rows)-1]
	if last[0] != "Net" || last[1] != "36000" {
		t.Errorf("net row = %v", last)
	}
}
