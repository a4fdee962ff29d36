// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/okian/archery-handicaps/internal/adapters/export"
	"github.com/okian/archery-handicaps/internal/domain/table"
	"github.com/okian/archery-handicaps/internal/domain/types"
)

// Table output formats selected with ?format=.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatText = "text"
	FormatXLSX = "xlsx"
	FormatPNG  = "png"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatText: "text/plain; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPNG:  "image/png",
}

// TableDependencies defines the interface for table building.
type TableDependencies interface {
	Table(ctx context.Context, req types.TableRequest) (*table.Table, error)
}

// TableHandler handles table requests.
type TableHandler struct {
	deps TableDependencies
}

// NewTableHandler creates a new table handler.
func NewTableHandler(deps TableDependencies) *TableHandler {
	return &TableHandler{deps: deps}
}

// HandleTable handles POST /table?format= requests.
func (h *TableHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatJSON
	}
	if _, ok := contentTypes[format]; !ok && format != FormatJSON {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind("table", ErrBadRequest, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)))
		return
	}

	var req types.TableRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	tbl, err := h.deps.Table(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if format == FormatJSON {
		writeJSON(w, http.StatusOK, tableResult(tbl))
		return
	}

	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		err = tbl.WriteCSV(&buf)
	case FormatText:
		err = tbl.WriteText(&buf)
	case FormatXLSX:
		err = export.WriteXLSX(&buf, tbl)
	case FormatPNG:
		err = export.WritePNG(&buf, tbl)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// tableResult converts a table to its JSON shape; blank cells become null.
func tableResult(t *table.Table) types.TableResult {
	scores := make([][]*float64, len(t.Scores))
	for i, row := range t.Scores {
		out := make([]*float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			v := v
			out[j] = &v
		}
		scores[i] = out
	}
	return types.TableResult{
		Scheme:    t.Scheme,
		Rounds:    t.Rounds,
		Handicaps: t.Handicaps,
		Scores:    scores,
		IntPrec:   t.IntPrec,
	}
}
