package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the kind of a ledger row.
type EntryType string

const (
	EntrySale     EntryType = "sale"
	EntryPurchase EntryType = "purchase"
	EntryPayment  EntryType = "payment"
	EntryReceived EntryType = "received"
	EntryTransfer EntryType = "transfer"

	// EntryAll disables type filtering.
	EntryAll EntryType = "all"
)

func (t EntryType) Valid() bool {
	switch t {
	case EntrySale, EntryPurchase, EntryPayment, EntryReceived, EntryTransfer:
		return true
	}
	return false
}

// DateFilter buckets ledger entries by calendar date relative to a reference day.
type DateFilter string

const (
	DateToday     DateFilter = "today"
	DateYesterday DateFilter = "yesterday"
	DateWeek      DateFilter = "week"
	DateMonth     DateFilter = "month"
	DateAll       DateFilter = "all"
)

func (f DateFilter) Valid() bool {
	switch f {
	case DateToday, DateYesterday, DateWeek, DateMonth, DateAll:
		return true
	}
	return false
}

// DateLayout is the ISO calendar date format used by ledger entries.
const DateLayout = "2006-01-02"

// LedgerEntry is one row of a merchant's transaction history.
// Debits carry negative amounts.
type LedgerEntry struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	MerchantID  string          `json:"merchant_id,omitempty" gorm:"index"`
	Date        string          `json:"date" gorm:"type:varchar(10);index"`
	Time        string          `json:"time"`
	Type        EntryType       `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(14,2)"`
	Tax         decimal.Decimal `json:"tax" gorm:"type:numeric(14,2)"`
	Method      string          `json:"method"`
	Currency    string          `json:"currency,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LedgerFilter is the combination of filters applied to a ledger.
type LedgerFilter struct {
	Date   DateFilter `json:"date"`
	Type   EntryType  `json:"type"`
	Search string     `json:"search"`
}

// LedgerTotals are the aggregates over a filtered set.
type LedgerTotals struct {
	Sales decimal.Decimal `json:"sales"`
	VAT   decimal.Decimal `json:"vat"`
	Net   decimal.Decimal `json:"net"`
	Count int             `json:"count"`
}

// LedgerGroup holds entries sharing one date.
type LedgerGroup struct {
	Date     string        `json:"date"`
	Label    string        `json:"label"`
	Entries  []LedgerEntry `json:"entries"`
	Subtotal LedgerTotals  `json:"subtotal"`
}

// LedgerView is a filtered, date-grouped ledger with totals.
type LedgerView struct {
	Filter LedgerFilter  `json:"filter"`
	Groups []LedgerGroup `json:"groups"`
	Totals LedgerTotals  `json:"totals"`
}
