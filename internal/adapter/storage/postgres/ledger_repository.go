package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type LedgerRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLedgerRepository(db *gorm.DB, log *zap.Logger) ports.LedgerRepository {
	return &LedgerRepository{db: db, log: log}
}

func (r *LedgerRepository) Save(ctx context.Context, entry *domain.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// SaveBatch inserts entries in one transaction, skipping IDs that already exist.
func (r *LedgerRepository) SaveBatch(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(entries, 100).Error
	})
	if err != nil {
		return fmt.Errorf("insert ledger batch: %w", err)
	}
	return nil
}

// FindByMerchant returns entries newest first.
func (r *LedgerRepository) FindByMerchant(ctx context.Context, merchantID string) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

// FindByMerchantSince returns entries dated on or after since (YYYY-MM-DD).
func (r *LedgerRepository) FindByMerchantSince(ctx context.Context, merchantID, since string) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND date >= ?", merchantID, since).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}
