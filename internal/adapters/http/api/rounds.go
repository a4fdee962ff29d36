// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	repository "github.com/okian/archery-handicaps/internal/adapters/repository"
	"github.com/okian/archery-handicaps/internal/domain/types"
)

// RoundsDependencies defines the interface for catalogue reads.
type RoundsDependencies interface {
	Rounds(ctx context.Context, f repository.Filter) ([]types.RoundSummary, error)
	RoundSummary(ctx context.Context, codename string) (types.RoundSummary, error)
}

// RoundsHandler handles round catalogue requests.
type RoundsHandler struct {
	deps RoundsDependencies
}

// NewRoundsHandler creates a new rounds handler.
func NewRoundsHandler(deps RoundsDependencies) *RoundsHandler {
	return &RoundsHandler{deps: deps}
}

// HandleListRounds handles GET /rounds?location=&body=&family= requests.
func (h *RoundsHandler) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	rounds, err := h.deps.Rounds(r.Context(), repository.Filter{
		Location: q.Get("location"),
		Body:     q.Get("body"),
		Family:   q.Get("family"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

// HandleGetRound handles GET /rounds/{codename} requests.
func (h *RoundsHandler) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	codename := strings.TrimPrefix(r.URL.Path, "/rounds/")
	if codename == "" || strings.Contains(codename, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	rnd, err := h.deps.RoundSummary(r.Context(), codename)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rnd)
}
