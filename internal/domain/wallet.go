package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MobileMoneyProvider is a merchant's float with one mobile-money operator.
type MobileMoneyProvider struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	MerchantID    string          `json:"merchant_id" gorm:"index"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance" gorm:"type:numeric(14,2)"`
	Currency      string          `json:"currency"`
	ChangePercent decimal.Decimal `json:"change_percent" gorm:"type:numeric(6,2)"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DailyFlow is one day of credit and debit volume.
type DailyFlow struct {
	Day    string          `json:"day"`
	Date   string          `json:"date"`
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
}

type WalletOverview struct {
	Providers    []MobileMoneyProvider `json:"providers"`
	TotalBalance decimal.Decimal       `json:"total_balance"`
	Currency     string                `json:"currency"`
	Weekly       []DailyFlow           `json:"weekly"`
	TotalCredit  decimal.Decimal       `json:"total_credit"`
	TotalDebit   decimal.Decimal       `json:"total_debit"`
}

// DashboardSummary is the landing view of the merchant dashboard.
type DashboardSummary struct {
	Date           string          `json:"date"`
	Today          LedgerTotals    `json:"today"`
	ActiveProducts int64           `json:"active_products"`
	PendingOrders  int64           `json:"pending_orders"`
	WalletBalance  decimal.Decimal `json:"wallet_balance"`
	Currency       string          `json:"currency"`
}
