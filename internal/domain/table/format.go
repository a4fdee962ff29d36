package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const columnWidth = 14

var abbreviations = map[string]string{
	"Compound":   "C",
	"Recurve":    "R",
	"Triple":     "Tr",
	"Centre":     "C",
	"Portsmouth": "Ports",
	"Worcester":  "Worc",
	"Short":      "St",
	"Long":       "Lg",
	"Small":      "Sm",
	"Gents":      "G",
	"Ladies":     "L",
}

// Abbreviate shortens common words in a round name so it fits a column.
func Abbreviate(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if a, ok := abbreviations[w]; ok {
			words[i] = a
		}
	}
	return strings.Join(words, " ")
}

// HandicapDecimals is the number of decimals needed to print every
// handicap exactly.
func (t *Table) HandicapDecimals() int {
	dp := 0
	for _, h := range t.Handicaps {
		s := strconv.FormatFloat(h, 'f', -1, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > dp {
			dp = len(s) - i - 1
		}
	}
	return dp
}

// FormatHandicap renders a handicap with the table's decimals.
func (t *Table) FormatHandicap(h float64) string {
	return strconv.FormatFloat(h, 'f', t.HandicapDecimals(), 64)
}

// FormatScore renders a cell; blank cells render empty.
func (t *Table) FormatScore(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case t.IntPrec:
		return strconv.FormatInt(int64(v), 10)
	default:
		return strconv.FormatFloat(v, 'f', 8, 64)
	}
}

// String renders the table with fixed-width, right-justified columns.
func (t *Table) String() string {
	var b strings.Builder
	_ = t.WriteText(&b)
	return b.String()
}

// WriteText writes the fixed-width rendering of the table to w.
func (t *Table) WriteText(w io.Writer) error {
	var b strings.Builder
	pad := func(s string) { fmt.Fprintf(&b, "%*s", columnWidth, s) }

	pad("Handicap")
	for _, name := range t.Rounds {
		pad(Abbreviate(name))
	}
	dp := t.HandicapDecimals()
	for i, h := range t.Handicaps {
		b.WriteByte('\n')
		pad(strconv.FormatFloat(h, 'f', dp, 64))
		for _, v := range t.Scores[i] {
			pad(t.FormatScore(v))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV writes the table as CSV with a header row of full round names.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"Handicap"}, t.Rounds...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	dp := t.HandicapDecimals()
	for i, h := range t.Handicaps {
		rec := make([]string, 0, len(t.Rounds)+1)
		rec = append(rec, strconv.FormatFloat(h, 'f', dp, 64))
		for _, v := range t.Scores[i] {
			rec = append(rec, t.FormatScore(v))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
