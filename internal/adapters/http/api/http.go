// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/aporte/internal/domain/model"
)

// Date format used for period boundaries in responses.
const dateFormat = "2006-01-02"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// RecordContribution scores and records a contribution, returning the
	// award and the contributor's period total.
	RecordContribution(ctx context.Context, c model.Contribution) (awarded, total int, err error)

	// Read operations expose standings data.
	CurrentStandings(ctx context.Context) ([]model.Row, error)
	History(ctx context.Context, limit int) ([]model.ArchivedPeriod, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	contributionsHandler *ContributionsHandler
	standingsHandler     *StandingsHandler
	historyHandler       *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		contributionsHandler: NewContributionsHandler(deps),
		standingsHandler:     NewStandingsHandler(deps, maxLimit),
		historyHandler:       NewHistoryHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/contributions", MetricsMiddleware(s.contributionsHandler.HandlePostContribution, "contributions"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
}

// archivedPeriodResponse mirrors the archive document shape for reads.
type archivedPeriodResponse struct {
	PeriodStart string      `json:"period_start"`
	PeriodEnd   string      `json:"period_end"`
	Ranking     []model.Row `json:"ranking"`
}

func toArchivedPeriodResponse(p model.ArchivedPeriod) archivedPeriodResponse {
	return archivedPeriodResponse{
		PeriodStart: p.Start.Format(dateFormat),
		PeriodEnd:   p.End.Format(dateFormat),
		Ranking:     p.Ranking,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// trimmed reports whether s is empty after trimming whitespace.
func trimmed(s string) bool {
	return strings.TrimSpace(s) == ""
}
