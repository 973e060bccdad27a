package voice

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mru-labs/merchant-os/internal/domain"
)

const (
	unknownCustomer = "Unknown"
	voiceMethod     = "Voice"
	taxIncluded     = "Included"
)

var (
	currencyPattern = regexp.MustCompile(`\b[A-Z]{3}\b`)
	numberPattern   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

	ErrNoAmount = errors.New("no numeric amount found")
)

// ToSummary derives the display summary for a draft.
func ToSummary(d *domain.TransactionDraft) domain.TransactionSummary {
	customer := strings.TrimSpace(d.Customer)
	if customer == "" {
		customer = unknownCustomer
	}
	return domain.TransactionSummary{
		Type:     SummaryTypeFor(d.Type),
		Item:     d.Item,
		Amount:   d.Amount.String(),
		Customer: customer,
		Method:   voiceMethod,
		Tax:      taxIncluded,
	}
}

// SummaryTypeFor maps model categories onto display categories. Empty means sale.
func SummaryTypeFor(t domain.DraftType) domain.SummaryType {
	switch t {
	case domain.DraftStockIn:
		return domain.SummaryPurchase
	case domain.DraftExpense:
		return domain.SummaryPayment
	default:
		return domain.SummarySale
	}
}

// ActionFor picks the confirmation copy for a summary type.
func ActionFor(t domain.SummaryType) domain.TransactionAction {
	switch t {
	case domain.SummaryPurchase:
		return domain.ActionStock
	case domain.SummaryPayment:
		return domain.ActionPayment
	default:
		return domain.ActionSale
	}
}

// EntryTypeFor maps a summary type onto the ledger entry type.
func EntryTypeFor(t domain.SummaryType) domain.EntryType {
	switch t {
	case domain.SummaryPurchase:
		return domain.EntryPurchase
	case domain.SummaryPayment:
		return domain.EntryPayment
	default:
		return domain.EntrySale
	}
}

// ParseAmount reads a spoken amount such as "LRD 15,000" or "15000 GNF".
// The currency falls back to the draft currency, then to fallback.
func ParseAmount(amount, draftCurrency, fallback string) (decimal.Decimal, string, error) {
	num := numberPattern.FindString(amount)
	if num == "" {
		return decimal.Zero, "", fmt.Errorf("%w in %q", ErrNoAmount, amount)
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(num, ",", ""))
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("parse amount %q: %w", amount, err)
	}

	currency := currencyPattern.FindString(amount)
	if currency == "" {
		currency = strings.ToUpper(strings.TrimSpace(draftCurrency))
	}
	if currency == "" {
		currency = fallback
	}
	return value, currency, nil
}

// TemplateValues builds the placeholder values for a draft's confirmation text.
func TemplateValues(d *domain.TransactionDraft, fallbackCurrency string) map[string]string {
	values := map[string]string{
		"item":     d.Item,
		"customer": ToSummary(d).Customer,
		"method":   voiceMethod,
	}
	if q := strings.TrimSpace(d.Quantity.String()); q != "" {
		values["qty"] = q
	} else {
		values["qty"] = "1"
	}

	if value, currency, err := ParseAmount(d.Amount.String(), d.Currency, fallbackCurrency); err == nil {
		values["amount"] = formatThousands(value)
		values["currency"] = currency
	} else {
		values["amount"] = d.Amount.String()
		if d.Currency != "" {
			values["currency"] = d.Currency
		}
	}
	return values
}

// formatThousands renders 12000 as "12,000" and 1500.5 as "1,500.50".
func formatThousands(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs()

	intPart := d.Truncate(0).String()
	frac := ""
	if !d.Equal(d.Truncate(0)) {
		frac = d.StringFixed(2)[len(intPart):]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
