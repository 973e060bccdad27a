package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type Service struct {
	ledger          ports.LedgerService
	products        ports.ProductRepository
	orders          ports.OrderRepository
	wallets         ports.WalletRepository
	defaultCurrency string
	log             *zap.Logger
}

func NewService(ledger ports.LedgerService, products ports.ProductRepository, orders ports.OrderRepository, wallets ports.WalletRepository, defaultCurrency string, log *zap.Logger) ports.DashboardService {
	return &Service{
		ledger:          ledger,
		products:        products,
		orders:          orders,
		wallets:         wallets,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// Summary gathers the landing-page figures concurrently; any failing source fails the summary.
func (s *Service) Summary(ctx context.Context, merchantID string) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{
		Date:          s.ledger.Today().Format(domain.DateLayout),
		WalletBalance: decimal.Zero,
		Currency:      s.defaultCurrency,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		view, err := s.ledger.View(gctx, merchantID, domain.LedgerFilter{Date: domain.DateToday, Type: domain.EntryAll})
		if err != nil {
			return fmt.Errorf("today's ledger: %w", err)
		}
		summary.Today = view.Totals
		return nil
	})

	g.Go(func() error {
		n, err := s.products.CountActive(gctx, merchantID)
		if err != nil {
			return fmt.Errorf("active products: %w", err)
		}
		summary.ActiveProducts = n
		return nil
	})

	g.Go(func() error {
		n, err := s.orders.CountByStatus(gctx, merchantID, domain.OrderPending)
		if err != nil {
			return fmt.Errorf("pending orders: %w", err)
		}
		summary.PendingOrders = n
		return nil
	})

	var providers []domain.MobileMoneyProvider
	g.Go(func() error {
		var err error
		providers, err = s.wallets.FindProviders(gctx, merchantID)
		if err != nil {
			return fmt.Errorf("wallet providers: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Dashboard summary failed", zap.String("merchant_id", merchantID), zap.Error(err))
		return nil, err
	}

	for _, p := range providers {
		summary.WalletBalance = summary.WalletBalance.Add(p.Balance)
	}
	if len(providers) > 0 && providers[0].Currency != "" {
		summary.Currency = providers[0].Currency
	}
	return summary, nil
}
