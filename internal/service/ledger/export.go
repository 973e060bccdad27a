package ledger

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mru-labs/merchant-os/internal/domain"
)

const exportSheet = "Ledger"

var exportHeader = []interface{}{"Date", "Time", "Type", "Description", "Amount", "VAT", "Method"}

// WriteXLSX renders a ledger view as a single-sheet workbook followed by a totals block.
func WriteXLSX(w io.Writer, view *domain.LedgerView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	row := 1
	if err := setRow(f, row, exportHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(exportSheet, row, row, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for _, g := range view.Groups {
		for _, e := range g.Entries {
			row++
			amount, _ := e.Amount.Float64()
			tax, _ := e.Tax.Float64()
			values := []interface{}{e.Date, e.Time, string(e.Type), e.Description, amount, tax, e.Method}
			if err := setRow(f, row, values); err != nil {
				return err
			}
		}
	}

	row += 2
	sales, _ := view.Totals.Sales.Float64()
	vat, _ := view.Totals.VAT.Float64()
	net, _ := view.Totals.Net.Float64()
	totals := [][]interface{}{
		{"Total Sales", sales},
		{"Total VAT", vat},
		{"Net", net},
	}
	for i, t := range totals {
		if err := setRow(f, row+i, t); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(exportSheet, row, row+len(totals)-1, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	if err := f.SetColWidth(exportSheet, "D", "D", 36); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
