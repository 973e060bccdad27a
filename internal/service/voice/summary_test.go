package voice

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mru-labs/merchant-os/internal/domain"
)

func TestToSummary(t *testing.T) {
	draft := &domain.TransactionDraft{Type: domain.DraftStockIn, Item: "flour", Amount: "LRD 25,000"}

	got := ToSummary(draft)

	if got.Type != domain.SummaryPurchase {
		t.Errorf("Type = %s, want purchase", got.Type)
	}
	if got.Customer != "Unknown" || got.Method != "Voice" || got.Tax != "Included" {
		t.Errorf("defaults = %q/%q/%q", got.Customer, got.Method, got.Tax)
	}
	if got.Amount != "LRD 25,000" {
		t.Errorf("Amount = %q", got.Amount)
	}

	draft.Customer = "Musu"
	if c := ToSummary(draft).Customer; c != "Musu" {
		t.Errorf("Customer = %q, want Musu", c)
	}
}

func TestSummaryMappings(t *testing.T) {
	tests := []struct {
		draft  domain.DraftType
		sum    domain.SummaryType
		action domain.TransactionAction
		entry  domain.EntryType
	}{
		{"", domain.SummarySale, domain.ActionSale, domain.EntrySale},
		{domain.DraftSale, domain.SummarySale, domain.ActionSale, domain.EntrySale},
		{domain.DraftStockOut, domain.SummarySale, domain.ActionSale, domain.EntrySale},
		{domain.DraftStockIn, domain.SummaryPurchase, domain.ActionStock, domain.EntryPurchase},
		{domain.DraftExpense, domain.SummaryPayment, domain.ActionPayment, domain.EntryPayment},
	}

	for _, tt := range tests {
		s := SummaryTypeFor(tt.draft)
		if s != tt.sum {
			t.Errorf("SummaryTypeFor(%q) = %s, want %s", tt.draft, s, tt.sum)
		}
		if a := ActionFor(s); a != tt.action {
			t.Errorf("ActionFor(%s) = %s, want %s", s, a, tt.action)
		}
		if e := EntryTypeFor(s); e != tt.entry {
			t.Errorf("EntryTypeFor(%s) = %s, want %s", s, e, tt.entry)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in           string
		draftCur     string
		wantValue    string
		wantCurrency string
		wantErr      bool
	}{
		{"LRD 15,000", "", "15000", "LRD", false},
		{"15000 GNF", "", "15000", "GNF", false},
		{"1,250.50", "", "1250.5", "USD", false},
		{"500", "gnf", "500", "GNF", false},
		{"five hundred", "", "", "", true},
	}

	for _, tt := range tests {
		value, currency, err := ParseAmount(tt.in, tt.draftCur, "USD")
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseAmount(%q) error = %v", tt.in, err)
		}
		if tt.wantErr {
			continue
		}
		if !value.Equal(decimal.RequireFromString(tt.wantValue)) {
			t.Errorf("ParseAmount(%q) value = %s, want %s", tt.in, value, tt.wantValue)
		}
		if currency != tt.wantCurrency {
			t.Errorf("ParseAmount(%q) currency = %s, want %s", tt.in, currency, tt.wantCurrency)
		}
	}
}

func TestTemplateValues(t *testing.T) {
	draft := &domain.TransactionDraft{Item: "bags of rice", Amount: "12000", Quantity: "3", Currency: "LRD"}

	got := FillTemplate(GetVoiceCopy("en").Actions[domain.ActionSale].Template, TemplateValues(draft, "GNF"))

	if got != "Logged 3 bags of rice at LRD 12,000. Confirm?" {
		t.Errorf("rendered %q", got)
	}
}

func TestFormatThousands(t *testing.T) {
	tests := map[string]string{
		"0":       "0",
		"999":     "999",
		"1000":    "1,000",
		"1234567": "1,234,567",
		"1500.5":  "1,500.50",
		"-25000":  "-25,000",
	}
	for in, want := range tests {
		if got := formatThousands(decimal.RequireFromString(in)); got != want {
			t.Errorf("formatThousands(%s) = %q, want %q", in, got, want)
		}
	}
}
