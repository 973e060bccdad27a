package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/observability/telemetry"
	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/internal/service/events"
)

const entriesCachePrefix = "ledger:entries:"

type Options struct {
	VATRate  float64
	CacheTTL time.Duration
	// Clock supplies the reference "today". Defaults to time.Now.
	Clock func() time.Time
}

type Service struct {
	repo   ports.LedgerRepository
	cache  ports.Cache
	events *events.Publisher
	opts   Options
	vat    decimal.Decimal
	log    *zap.Logger
}

func NewService(repo ports.LedgerRepository, cache ports.Cache, publisher *events.Publisher, opts Options, log *zap.Logger) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		events: publisher,
		opts:   opts,
		vat:    decimal.NewFromFloat(opts.VATRate),
		log:    log,
	}
}

// FixedClock returns a clock pinned to date (YYYY-MM-DD) in loc, keeping the wall-clock time of day.
func FixedClock(date string, loc *time.Location) (func() time.Time, error) {
	day, err := time.ParseInLocation(domain.DateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("parse reference date: %w", err)
	}
	return func() time.Time {
		now := time.Now().In(loc)
		return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, loc)
	}, nil
}

func (s *Service) Today() time.Time {
	return s.opts.Clock()
}

// VAT returns the tax owed on a sale amount, rounded to cents. Debits carry no VAT.
func (s *Service) VAT(amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(s.vat).Round(2)
}

func (s *Service) View(ctx context.Context, merchantID string, filter domain.LedgerFilter) (*domain.LedgerView, error) {
	filter = NormalizeFilter(filter)
	if !filter.Date.Valid() {
		return nil, fmt.Errorf("%w: date filter %q", domain.ErrInvalidInput, filter.Date)
	}
	if filter.Type != domain.EntryAll && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: type filter %q", domain.ErrInvalidInput, filter.Type)
	}

	entries, err := s.Entries(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	view := Apply(entries, filter, s.Today())
	return &view, nil
}

// Entries loads a merchant's ledger, cache-aside.
func (s *Service) Entries(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error) {
	key := entriesCachePrefix + merchantID

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var entries []domain.LedgerEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				telemetry.CacheLookups.WithLabelValues("ledger", "hit").Inc()
				return entries, nil
			}
			s.log.Warn("Discarding corrupt ledger cache entry", zap.String("merchant_id", merchantID))
		} else if !errors.Is(err, ports.ErrCacheMiss) {
			s.log.Warn("Ledger cache lookup failed", zap.Error(err))
		}
		telemetry.CacheLookups.WithLabelValues("ledger", "miss").Inc()
	}

	entries, err := s.repo.FindByMerchant(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, entries, s.opts.CacheTTL); err != nil {
			s.log.Warn("Failed to cache ledger", zap.Error(err))
		}
	}
	return entries, nil
}

func (s *Service) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	now := s.Today()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Date == "" {
		entry.Date = now.Format(domain.DateLayout)
	}
	if entry.Time == "" {
		entry.Time = now.Format("3:04 PM")
	}
	entry.Description = strings.TrimSpace(entry.Description)
	entry.CreatedAt = now

	if err := validateEntry(entry); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, entry); err != nil {
		return fmt.Errorf("failed to save ledger entry: %w", err)
	}

	s.invalidate(ctx, entry.MerchantID)
	telemetry.LedgerEntriesTotal.WithLabelValues(string(entry.Type)).Inc()
	s.events.Publish(domain.SubjectLedgerEntryCreated, entry.MerchantID, entry)

	s.log.Info("Ledger entry appended",
		zap.String("merchant_id", entry.MerchantID),
		zap.String("entry_id", entry.ID),
		zap.String("type", string(entry.Type)),
		zap.String("amount", entry.Amount.String()),
	)
	return nil
}

func (s *Service) invalidate(ctx context.Context, merchantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, entriesCachePrefix+merchantID); err != nil {
		s.log.Warn("Failed to invalidate ledger cache", zap.Error(err))
	}
}

func validateEntry(e *domain.LedgerEntry) error {
	if e.MerchantID == "" {
		return fmt.Errorf("%w: merchant is required", domain.ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: date %q", domain.ErrInvalidInput, e.Date)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: type %q", domain.ErrInvalidInput, e.Type)
	}
	if e.Description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if e.Tax.IsNegative() {
		return fmt.Errorf("%w: tax must be non-negative", domain.ErrInvalidInput)
	}
	return nil
}

func (s *Service) Export(ctx context.Context, merchantID string, filter domain.LedgerFilter, w io.Writer) error {
	view, err := s.View(ctx, merchantID, filter)
	if err != nil {
		return err
	}
	return WriteXLSX(w, view)
}
