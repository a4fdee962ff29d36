// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/archery-handicaps/internal/adapters/repository"
	"github.com/okian/archery-handicaps/internal/domain/handicap"
	"github.com/okian/archery-handicaps/internal/domain/table"
	"github.com/okian/archery-handicaps/internal/domain/target"
	"github.com/okian/archery-handicaps/internal/domain/types"
	"github.com/okian/archery-handicaps/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Schemes() []types.SchemeSummary
	Rounds(ctx context.Context, f repository.Filter) ([]types.RoundSummary, error)
	RoundSummary(ctx context.Context, codename string) (types.RoundSummary, error)
	Score(ctx context.Context, req types.ScoreRequest) (types.ScoreResult, error)
	Handicap(ctx context.Context, req types.HandicapRequest) (types.HandicapResult, error)
	Table(ctx context.Context, req types.TableRequest) (*table.Table, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	roundsHandler  *RoundsHandler
	schemesHandler *SchemesHandler
	scoreHandler   *ScoreHandler
	tableHandler   *TableHandler
	log            logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		roundsHandler:  NewRoundsHandler(deps),
		schemesHandler: NewSchemesHandler(deps),
		scoreHandler:   NewScoreHandler(deps),
		tableHandler:   NewTableHandler(deps),
		log:            log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	wrap := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.log)
	}

	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/schemes", wrap(s.schemesHandler.HandleGetSchemes, "schemes"))
	mux.HandleFunc("/rounds", wrap(s.roundsHandler.HandleListRounds, "rounds"))
	mux.HandleFunc("/rounds/", wrap(s.roundsHandler.HandleGetRound, "round"))
	mux.HandleFunc("/score", wrap(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/handicap", wrap(s.scoreHandler.HandleHandicap, "handicap"))
	mux.HandleFunc("/table", wrap(s.tableHandler.HandleTable, "table"))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: w.Header().Get(RequestIDHeader)})
}

// writeDomainError translates service errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, types.ErrInvalidRequest),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, handicap.ErrUnknownScheme),
		errors.Is(err, handicap.ErrScoreOutOfRange),
		errors.Is(err, table.ErrInvalidGrid),
		errors.Is(err, table.ErrTooManyRows),
		errors.Is(err, target.ErrInvalidDimension):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, handicap.ErrNotBracketed),
		errors.Is(err, handicap.ErrNoConvergence):
		return http.StatusUnprocessableEntity, "no_solution"
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return WrapKind("decode", ErrBadRequest, err)
	}
	return nil
}
