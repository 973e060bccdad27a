package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const flowDays = 7

type Service struct {
	providers       ports.WalletRepository
	ledger          ports.LedgerRepository
	clock           func() time.Time
	defaultCurrency string
	log             *zap.Logger
}

func NewService(providers ports.WalletRepository, ledger ports.LedgerRepository, clock func() time.Time, defaultCurrency string, log *zap.Logger) ports.WalletService {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		providers:       providers,
		ledger:          ledger,
		clock:           clock,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// Overview combines the merchant's mobile-money floats with the last seven days of ledger flow.
func (s *Service) Overview(ctx context.Context, merchantID string) (*domain.WalletOverview, error) {
	providers, err := s.providers.FindProviders(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet providers: %w", err)
	}

	overview := &domain.WalletOverview{
		Providers:    providers,
		TotalBalance: decimal.Zero,
		Currency:     s.defaultCurrency,
	}
	for _, p := range providers {
		overview.TotalBalance = overview.TotalBalance.Add(p.Balance)
	}
	if len(providers) > 0 && providers[0].Currency != "" {
		overview.Currency = providers[0].Currency
	}

	today := s.clock()
	since := today.AddDate(0, 0, -(flowDays - 1)).Format(domain.DateLayout)
	entries, err := s.ledger.FindByMerchantSince(ctx, merchantID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger flow: %w", err)
	}

	overview.Weekly = WeeklyFlow(entries, today)
	overview.TotalCredit, overview.TotalDebit = decimal.Zero, decimal.Zero
	for _, d := range overview.Weekly {
		overview.TotalCredit = overview.TotalCredit.Add(d.Credit)
		overview.TotalDebit = overview.TotalDebit.Add(d.Debit)
	}
	return overview, nil
}

// WeeklyFlow buckets entries into the seven days ending today, oldest first.
// Positive amounts are credit, negative amounts count towards debit by magnitude.
func WeeklyFlow(entries []domain.LedgerEntry, today time.Time) []domain.DailyFlow {
	days := make([]domain.DailyFlow, flowDays)
	index := make(map[string]int, flowDays)
	for i := 0; i < flowDays; i++ {
		day := today.AddDate(0, 0, i-(flowDays-1))
		date := day.Format(domain.DateLayout)
		days[i] = domain.DailyFlow{
			Day:    day.Format("Mon"),
			Date:   date,
			Credit: decimal.Zero,
			Debit:  decimal.Zero,
		}
		index[date] = i
	}

	for _, e := range entries {
		i, ok := index[e.Date]
		if !ok {
			continue
		}
		if e.Amount.IsPositive() {
			days[i].Credit = days[i].Credit.Add(e.Amount)
		} else {
			days[i].Debit = days[i].Debit.Add(e.Amount.Abs())
		}
	}
	return days
}
