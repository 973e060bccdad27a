// Package seed loads the embedded demo fixtures and installs them for a merchant.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

//go:embed demo.yaml
var demoYAML []byte

type ledgerRow struct {
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	Tax         string `yaml:"tax"`
	Method      string `yaml:"method"`
}

type providerRow struct {
	Name          string `yaml:"name"`
	Balance       string `yaml:"balance"`
	Currency      string `yaml:"currency"`
	ChangePercent string `yaml:"change_percent"`
}

// Fixtures is the decoded demo data set.
type Fixtures struct {
	Anchor    string                   `yaml:"anchor"`
	Currency  string                   `yaml:"currency"`
	Ledger    []ledgerRow              `yaml:"ledger"`
	Providers []providerRow            `yaml:"providers"`
	Insights  []domain.InsightTemplate `yaml:"insights"`
}

// Load decodes the embedded fixtures.
func Load() (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(demoYAML, &f); err != nil {
		return nil, fmt.Errorf("decode demo fixtures: %w", err)
	}
	return &f, nil
}

// LedgerEntries returns the demo ledger for merchantID with dates shifted so the anchor day is today.
func (f *Fixtures) LedgerEntries(merchantID string, today time.Time) ([]domain.LedgerEntry, error) {
	anchor, err := time.Parse(domain.DateLayout, f.Anchor)
	if err != nil {
		return nil, fmt.Errorf("bad fixture anchor: %w", err)
	}
	todayDay := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	shift := int(todayDay.Sub(anchor).Hours() / 24)

	entries := make([]domain.LedgerEntry, 0, len(f.Ledger))
	for _, row := range f.Ledger {
		date, err := time.Parse(domain.DateLayout, row.Date)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", row.ID, err)
		}
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("fixture %s amount: %w", row.ID, err)
		}
		tax, err := decimal.NewFromString(row.Tax)
		if err != nil {
			return nil, fmt.Errorf("fixture %s tax: %w", row.ID, err)
		}

		entries = append(entries, domain.LedgerEntry{
			ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(merchantID+"/"+row.ID)).String(),
			MerchantID:  merchantID,
			Date:        date.AddDate(0, 0, shift).Format(domain.DateLayout),
			Time:        row.Time,
			Type:        domain.EntryType(row.Type),
			Description: row.Description,
			Amount:      amount,
			Tax:         tax,
			Method:      row.Method,
			Currency:    f.Currency,
			CreatedAt:   today,
		})
	}
	return entries, nil
}

func (f *Fixtures) WalletProviders(merchantID string, now time.Time) ([]domain.MobileMoneyProvider, error) {
	providers := make([]domain.MobileMoneyProvider, 0, len(f.Providers))
	for _, row := range f.Providers {
		balance, err := decimal.NewFromString(row.Balance)
		if err != nil {
			return nil, fmt.Errorf("provider %s balance: %w", row.Name, err)
		}
		change, err := decimal.NewFromString(row.ChangePercent)
		if err != nil {
			return nil, fmt.Errorf("provider %s change: %w", row.Name, err)
		}
		providers = append(providers, domain.MobileMoneyProvider{
			ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte(merchantID+"/"+row.Name)).String(),
			MerchantID:    merchantID,
			Name:          row.Name,
			Balance:       balance,
			Currency:      row.Currency,
			ChangePercent: change,
			UpdatedAt:     now,
		})
	}
	return providers, nil
}

// Seeder installs the demo ledger and wallet for new merchants.
type Seeder struct {
	fixtures *Fixtures
	ledger   ports.LedgerRepository
	wallets  ports.WalletRepository
	clock    func() time.Time
	log      *zap.Logger
}

func NewSeeder(fixtures *Fixtures, ledger ports.LedgerRepository, wallets ports.WalletRepository, clock func() time.Time, log *zap.Logger) *Seeder {
	if clock == nil {
		clock = time.Now
	}
	return &Seeder{fixtures: fixtures, ledger: ledger, wallets: wallets, clock: clock, log: log}
}

// SeedMerchant is a no-op when the merchant already has ledger history.
func (s *Seeder) SeedMerchant(ctx context.Context, merchantID string) error {
	existing, err := s.ledger.FindByMerchant(ctx, merchantID)
	if err != nil {
		return fmt.Errorf("check existing ledger: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	now := s.clock()
	entries, err := s.fixtures.LedgerEntries(merchantID, now)
	if err != nil {
		return err
	}
	if err := s.ledger.SaveBatch(ctx, entries); err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}

	providers, err := s.fixtures.WalletProviders(merchantID, now)
	if err != nil {
		return err
	}
	for i := range providers {
		if err := s.wallets.SaveProvider(ctx, &providers[i]); err != nil {
			return fmt.Errorf("seed wallet: %w", err)
		}
	}

	s.log.Info("Demo data seeded",
		zap.String("merchant_id", merchantID),
		zap.Int("ledger_entries", len(entries)),
		zap.Int("providers", len(providers)),
	)
	return nil
}
