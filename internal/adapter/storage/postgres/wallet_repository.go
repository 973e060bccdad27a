package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type WalletRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewWalletRepository(db *gorm.DB, log *zap.Logger) ports.WalletRepository {
	return &WalletRepository{db: db, log: log}
}

func (r *WalletRepository) SaveProvider(ctx context.Context, provider *domain.MobileMoneyProvider) error {
	return r.db.WithContext(ctx).Save(provider).Error
}

func (r *WalletRepository) FindProviders(ctx context.Context, merchantID string) ([]domain.MobileMoneyProvider, error) {
	var providers []domain.MobileMoneyProvider
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("balance DESC").
		Find(&providers).Error
	return providers, err
}

type VoiceTransactionRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewVoiceTransactionRepository(db *gorm.DB, log *zap.Logger) ports.VoiceTransactionRepository {
	return &VoiceTransactionRepository{db: db, log: log}
}

func (r *VoiceTransactionRepository) Save(ctx context.Context, vt *domain.VoiceTransaction) error {
	return r.db.WithContext(ctx).Create(vt).Error
}

func (r *VoiceTransactionRepository) FindByMerchant(ctx context.Context, merchantID string, limit int) ([]domain.VoiceTransaction, error) {
	var out []domain.VoiceTransaction
	q := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}
