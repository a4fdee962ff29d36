// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/archery-handicaps/internal/domain/types"
)

// SchemesDependencies defines the interface for scheme listing.
type SchemesDependencies interface {
	Schemes() []types.SchemeSummary
}

// SchemesHandler handles scheme requests.
type SchemesHandler struct {
	deps SchemesDependencies
}

// NewSchemesHandler creates a new schemes handler.
func NewSchemesHandler(deps SchemesDependencies) *SchemesHandler {
	return &SchemesHandler{deps: deps}
}

// HandleGetSchemes handles GET /schemes requests.
func (h *SchemesHandler) HandleGetSchemes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Schemes())
}
