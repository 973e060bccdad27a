package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mru-labs/merchant-os/internal/domain"
)

var refDay = time.Date(2026, time.February, 9, 14, 30, 0, 0, time.UTC)

func entry(id, date string, typ domain.EntryType, desc string, amount, tax int64) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:          id,
		Date:        date,
		Type:        typ,
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Tax:         decimal.NewFromInt(tax),
	}
}

func demoLedger() []domain.LedgerEntry {
	return []domain.LedgerEntry{
		entry("L001", "2026-02-09", domain.EntrySale, "Rice - 4 bags", 18000, 1260),
		entry("L002", "2026-02-09", domain.EntrySale, "Palm Oil - 6 gallons", 12000, 840),
		entry("L003", "2026-02-09", domain.EntryPurchase, "Supplier - Flour stock", -25000, 0),
		entry("L004", "2026-02-09", domain.EntryPayment, "Market stall rent", -5000, 0),
		entry("L005", "2026-02-08", domain.EntrySale, "Bouillon cubes - 20 boxes", 8000, 560),
		entry("L006", "2026-02-08", domain.EntrySale, "Sugar - 10 bags", 15000, 1050),
		entry("L007", "2026-02-08", domain.EntryPurchase, "Supplier - Soap restock", -9500, 0),
		entry("L008", "2026-02-08", domain.EntrySale, "Cooking Oil - 3 jerry cans", 22500, 1575),
		entry("L009", "2026-02-07", domain.EntrySale, "Soap bars - 24 packs", 9600, 672),
		entry("L010", "2026-02-07", domain.EntryPayment, "Electricity bill", -3500, 0),
		entry("L011", "2026-02-07", domain.EntrySale, "Rice - 2 bags", 9000, 630),
		entry("L012", "2026-02-06", domain.EntryPurchase, "Supplier - Beverages", -18000, 0),
		entry("L013", "2026-02-06", domain.EntrySale, "Mixed groceries", 6800, 476),
		entry("L014", "2026-01-28", domain.EntrySale, "January rice", 4000, 280),
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got, want)
	}
}

func ids(view domain.LedgerView) []string {
	var out []string
	for _, g := range view.Groups {
		for _, e := range g.Entries {
			out = append(out, e.ID)
		}
	}
	return out
}

func TestTotals_SaleAndPurchase(t *testing.T) {
	entries := []domain.LedgerEntry{
		{Amount: decimal.NewFromInt(18000), Tax: decimal.NewFromInt(1260)},
		{Amount: decimal.NewFromInt(-25000), Tax: decimal.Zero},
	}

	view := Apply(entries, domain.LedgerFilter{}, refDay)

	assertDecimal(t, "sales", view.Totals.Sales, 18000)
	assertDecimal(t, "vat", view.Totals.VAT, 1260)
	assertDecimal(t, "net", view.Totals.Net, -7000)
}

func TestApply_NoMatchingType(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry("a", "2026-02-09", domain.EntrySale, "Rice", 100, 7),
	}

	view := Apply(entries, domain.LedgerFilter{Type: domain.EntryTransfer}, refDay)

	if len(view.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(view.Groups))
	}
	assertDecimal(t, "sales", view.Totals.Sales, 0)
	assertDecimal(t, "vat", view.Totals.VAT, 0)
	assertDecimal(t, "net", view.Totals.Net, 0)
	if view.Totals.Count != 0 {
		t.Errorf("count = %d, want 0", view.Totals.Count)
	}
}

func TestApply_DateFilters(t *testing.T) {
	tests := []struct {
		filter    domain.DateFilter
		wantCount int
		wantDates []string
	}{
		{domain.DateToday, 4, []string{"2026-02-09"}},
		{domain.DateYesterday, 4, []string{"2026-02-08"}},
		{domain.DateWeek, 13, []string{"2026-02-09", "2026-02-08", "2026-02-07", "2026-02-06"}},
		{domain.DateMonth, 13, []string{"2026-02-09", "2026-02-08", "2026-02-07", "2026-02-06"}},
		{domain.DateAll, 14, []string{"2026-02-09", "2026-02-08", "2026-02-07", "2026-02-06", "2026-01-28"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			view := Apply(demoLedger(), domain.LedgerFilter{Date: tt.filter}, refDay)

			if view.Totals.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", view.Totals.Count, tt.wantCount)
			}
			if len(view.Groups) != len(tt.wantDates) {
				t.Fatalf("groups = %d, want %d", len(view.Groups), len(tt.wantDates))
			}
			for i, g := range view.Groups {
				if g.Date != tt.wantDates[i] {
					t.Errorf("group %d date = %s, want %s", i, g.Date, tt.wantDates[i])
				}
			}
		})
	}
}

func TestApply_WeekLowerBoundInclusive(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry("in", "2026-02-03", domain.EntrySale, "edge", 1, 0),
		entry("out", "2026-02-02", domain.EntrySale, "before", 1, 0),
	}

	view := Apply(entries, domain.LedgerFilter{Date: domain.DateWeek}, refDay)

	got := ids(view)
	if len(got) != 1 || got[0] != "in" {
		t.Errorf("week filter kept %v, want [in]", got)
	}
}

func TestApply_TodayTotals(t *testing.T) {
	view := Apply(demoLedger(), domain.LedgerFilter{Date: domain.DateToday}, refDay)

	assertDecimal(t, "sales", view.Totals.Sales, 30000)
	assertDecimal(t, "vat", view.Totals.VAT, 2100)
	assertDecimal(t, "net", view.Totals.Net, 0)
}

func TestApply_TypeAndSearch(t *testing.T) {
	view := Apply(demoLedger(), domain.LedgerFilter{Type: domain.EntrySale, Search: "RICE"}, refDay)

	got := ids(view)
	want := []string{"L001", "L011", "L014"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	assertDecimal(t, "sales", view.Totals.Sales, 31000)
}

func TestApply_SearchKeepsSurroundingSpaces(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "trailing space", search: "rice ", want: []string{"L001", "L011"}},
		{name: "leading space", search: " rice", want: []string{"L014"}},
		{name: "blank", search: "   ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Apply(demoLedger(), domain.LedgerFilter{Search: tt.search}, refDay)

			got := ids(view)
			if tt.want == nil {
				if len(got) != len(demoLedger()) {
					t.Errorf("blank search kept %d entries, want %d", len(got), len(demoLedger()))
				}
				if view.Filter.Search != "" {
					t.Errorf("Filter.Search = %q, want empty", view.Filter.Search)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ids[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApply_SearchSupplierPurchases(t *testing.T) {
	view := Apply(demoLedger(), domain.LedgerFilter{Search: "supplier"}, refDay)

	assertDecimal(t, "sales", view.Totals.Sales, 0)
	assertDecimal(t, "net", view.Totals.Net, -52500)
	if view.Totals.Count != 3 {
		t.Errorf("count = %d, want 3", view.Totals.Count)
	}
}

func TestApply_GroupsSumToTotals(t *testing.T) {
	filters := []domain.LedgerFilter{
		{},
		{Date: domain.DateWeek},
		{Type: domain.EntryPurchase},
		{Search: "oil"},
		{Date: domain.DateYesterday, Type: domain.EntrySale},
	}

	for _, f := range filters {
		view := Apply(demoLedger(), f, refDay)

		var flat []domain.LedgerEntry
		sum := zeroTotals()
		for _, g := range view.Groups {
			flat = append(flat, g.Entries...)
			sum = addTotals(sum, g.Subtotal)
		}
		direct := Totals(flat)

		if !sum.Sales.Equal(view.Totals.Sales) || !sum.VAT.Equal(view.Totals.VAT) || !sum.Net.Equal(view.Totals.Net) {
			t.Errorf("filter %+v: group subtotals %+v differ from totals %+v", f, sum, view.Totals)
		}
		if !direct.Net.Equal(view.Totals.Net) || direct.Count != view.Totals.Count {
			t.Errorf("filter %+v: flat totals %+v differ from view totals %+v", f, direct, view.Totals)
		}
	}
}

func TestApply_KeepsInputOrderWithinGroup(t *testing.T) {
	view := Apply(demoLedger(), domain.LedgerFilter{Date: domain.DateToday}, refDay)

	want := []string{"L001", "L002", "L003", "L004"}
	for i, e := range view.Groups[0].Entries {
		if e.ID != want[i] {
			t.Errorf("entry %d = %s, want %s", i, e.ID, want[i])
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	entries := demoLedger()
	before := entries[0]

	Apply(entries, domain.LedgerFilter{Search: "rice"}, refDay)

	if entries[0].ID != before.ID || len(entries) != 14 {
		t.Error("Apply modified its input")
	}
}

func TestDateLabel(t *testing.T) {
	tests := map[string]string{
		"2026-02-09": "Today",
		"2026-02-08": "Yesterday",
		"2026-02-06": "Fri, Feb 6",
		"garbage":    "garbage",
	}
	for in, want := range tests {
		if got := DateLabel(in, refDay); got != want {
			t.Errorf("DateLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBounds(t *testing.T) {
	tests := map[domain.DateFilter]string{
		domain.DateToday:     "2026-02-09",
		domain.DateYesterday: "2026-02-08",
		domain.DateWeek:      "2026-02-03",
		domain.DateMonth:     "2026-02-01",
		domain.DateAll:       "",
	}
	for f, want := range tests {
		if got := Bounds(f, refDay); got != want {
			t.Errorf("Bounds(%s) = %q, want %q", f, got, want)
		}
	}
}
