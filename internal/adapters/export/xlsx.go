// Package export renders handicap tables as spreadsheets and charts.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/okian/archery-handicaps/internal/domain/table"
)

const (
	defaultSheet = "Handicaps"
	columnWidth  = 16
)

// WriteXLSX writes t as a single-sheet workbook. The sheet is named after the
// table's scheme; the header row is frozen and blank cells are left empty.
func WriteXLSX(w io.Writer, t *table.Table) error {
	if t == nil || len(t.Handicaps) == 0 {
		return ErrEmptyTable
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	if t.Scheme != "" {
		sheet = t.Scheme
	}
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return fmt.Errorf("name sheet %q: %w", sheet, err)
	}

	header := make([]interface{}, 0, len(t.Rounds)+1)
	header = append(header, "Handicap")
	for _, name := range t.Rounds {
		header = append(header, name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, h := range t.Handicaps {
		row := make([]interface{}, 0, len(t.Rounds)+1)
		row = append(row, h)
		for _, v := range t.Scores[i] {
			row = append(row, cellValue(t, v))
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := styleSheet(f, sheet, len(t.Rounds)+1); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellValue(t *table.Table, v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return nil
	case t.IntPrec:
		return int64(v)
	default:
		return v
	}
}

func styleSheet(f *excelize.File, sheet string, cols int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, columnWidth); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
