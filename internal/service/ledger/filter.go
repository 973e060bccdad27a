package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mru-labs/merchant-os/internal/domain"
)

// NormalizeFilter fills empty filter fields with their passthrough values.
func NormalizeFilter(f domain.LedgerFilter) domain.LedgerFilter {
	if f.Date == "" {
		f.Date = domain.DateAll
	}
	if f.Type == "" {
		f.Type = domain.EntryAll
	}
	// Surrounding spaces are kept in the query; a blank query disables the search.
	if strings.TrimSpace(f.Search) == "" {
		f.Search = ""
	}
	return f
}

// Apply filters entries relative to the calendar day of today, groups them by date
// (most recent first) and totals exactly the filtered subset. entries is not modified.
func Apply(entries []domain.LedgerEntry, filter domain.LedgerFilter, today time.Time) domain.LedgerView {
	filter = NormalizeFilter(filter)
	match := dateMatcher(filter.Date, today)
	query := strings.ToLower(filter.Search)

	byDate := make(map[string][]domain.LedgerEntry)
	for _, e := range entries {
		if !match(e.Date) {
			continue
		}
		if filter.Type != domain.EntryAll && e.Type != filter.Type {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Description), query) {
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	// ISO dates sort chronologically as strings.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	view := domain.LedgerView{
		Filter: filter,
		Groups: make([]domain.LedgerGroup, 0, len(dates)),
		Totals: zeroTotals(),
	}
	for _, d := range dates {
		group := domain.LedgerGroup{
			Date:     d,
			Label:    DateLabel(d, today),
			Entries:  byDate[d],
			Subtotal: Totals(byDate[d]),
		}
		view.Groups = append(view.Groups, group)
		view.Totals = addTotals(view.Totals, group.Subtotal)
	}
	return view
}

// Totals computes sales (positive amounts), VAT (sum of tax) and net (sum of amounts).
func Totals(entries []domain.LedgerEntry) domain.LedgerTotals {
	t := zeroTotals()
	for _, e := range entries {
		if e.Amount.IsPositive() {
			t.Sales = t.Sales.Add(e.Amount)
		}
		t.VAT = t.VAT.Add(e.Tax)
		t.Net = t.Net.Add(e.Amount)
		t.Count++
	}
	return t
}

// DateLabel renders "Today", "Yesterday" or a short weekday date like "Mon, Feb 6".
func DateLabel(date string, today time.Time) string {
	todayStr := dayOf(today).Format(domain.DateLayout)
	yesterdayStr := dayOf(today).AddDate(0, 0, -1).Format(domain.DateLayout)

	switch date {
	case todayStr:
		return "Today"
	case yesterdayStr:
		return "Yesterday"
	}
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Mon, Jan 2")
}

// Bounds returns the inclusive lower date bound for filter, or "" when unbounded.
// Today and yesterday are exact matches and return that day.
func Bounds(filter domain.DateFilter, today time.Time) string {
	day := dayOf(today)
	switch filter {
	case domain.DateToday:
		return day.Format(domain.DateLayout)
	case domain.DateYesterday:
		return day.AddDate(0, 0, -1).Format(domain.DateLayout)
	case domain.DateWeek:
		return day.AddDate(0, 0, -6).Format(domain.DateLayout)
	case domain.DateMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location()).Format(domain.DateLayout)
	default:
		return ""
	}
}

func dateMatcher(filter domain.DateFilter, today time.Time) func(string) bool {
	bound := Bounds(filter, today)
	switch filter {
	case domain.DateToday, domain.DateYesterday:
		return func(d string) bool { return d == bound }
	case domain.DateWeek, domain.DateMonth:
		return func(d string) bool { return d >= bound }
	default:
		return func(string) bool { return true }
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func zeroTotals() domain.LedgerTotals {
	return domain.LedgerTotals{Sales: decimal.Zero, VAT: decimal.Zero, Net: decimal.Zero}
}

func addTotals(a, b domain.LedgerTotals) domain.LedgerTotals {
	return domain.LedgerTotals{
		Sales: a.Sales.Add(b.Sales),
		VAT:   a.VAT.Add(b.VAT),
		Net:   a.Net.Add(b.Net),
		Count: a.Count + b.Count,
	}
}
