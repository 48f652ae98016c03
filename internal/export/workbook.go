// Package export renders expense summaries as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/avrm/opsdash/internal/core"
)

const (
	SheetEntries = "Entries"
	SheetSummary = "Summary"

	// ContentType is the MIME type of the written workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// numFmtFixed2 is the built-in "0.00" number format.
const numFmtFixed2 = 2

// Filename names the export for a summary window.
func Filename(s core.ExpenseSummary) string {
	return fmt.Sprintf("expenses-%s-%dm.xlsx", s.Since.String(), s.Months)
}

// WriteExpenses writes an Entries sheet (one row per entry) and a Summary
// sheet (totals by month, by source, and overall) to w.
func WriteExpenses(w io.Writer, s core.ExpenseSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetEntries); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	summaryIdx, err := f.NewSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtFixed2})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeEntries(f, s, bold, money); err != nil {
		return err
	}
	if err := writeSummary(f, s, bold, money); err != nil {
		return err
	}

	f.SetActiveSheet(summaryIdx)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeEntries(f *excelize.File, s core.ExpenseSummary, bold, money int) error {
	if err := f.SetSheetRow(SheetEntries, "A1", &[]any{"Month", "Source", "Amount", "Notes"}); err != nil {
		return fmt.Errorf("write entries header: %w", err)
	}
	if err := f.SetCellStyle(SheetEntries, "A1", "D1", bold); err != nil {
		return err
	}

	for i, e := range s.Entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{e.Month.String(), e.DisplaySource(), e.Amount.Float(), e.Notes}
		if err := f.SetSheetRow(SheetEntries, cell, &row); err != nil {
			return fmt.Errorf("write entry %d: %w", e.ID, err)
		}
	}
	if n := len(s.Entries); n > 0 {
		if err := f.SetCellStyle(SheetEntries, "C2", fmt.Sprintf("C%d", n+1), money); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetEntries, "A", "B", 16); err != nil {
		return err
	}
	return f.SetColWidth(SheetEntries, "D", "D", 40)
}

// writeSummary lays out three blocks separated by a blank row:
// month totals, source totals, then the grand total.
func writeSummary(f *excelize.File, s core.ExpenseSummary, bold, money int) error {
	row := 1
	block := func(title string, items []core.KeyAmount) error {
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", row), &[]any{title, "Amount"}); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), bold); err != nil {
			return err
		}
		row++
		for _, it := range items {
			if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", row), &[]any{it.Key, it.Amount.Float()}); err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetSummary, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), money); err != nil {
				return err
			}
			row++
		}
		row++
		return nil
	}

	if err := block("Month", s.ByMonth.Items()); err != nil {
		return fmt.Errorf("write month totals: %w", err)
	}
	if err := block("Source", s.BySource.Items()); err != nil {
		return fmt.Errorf("write source totals: %w", err)
	}

	total := fmt.Sprintf("A%d", row)
	if err := f.SetSheetRow(SheetSummary, total, &[]any{"Total", s.TTMTotal.Float()}); err != nil {
		return fmt.Errorf("write total: %w", err)
	}
	if err := f.SetCellStyle(SheetSummary, total, fmt.Sprintf("B%d", row), bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 24)
}
