package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"saturn/internal/analytics"
	"saturn/internal/backtest"
	"saturn/internal/config"
	"saturn/internal/domain"
	"saturn/internal/marketdata"
	"saturn/internal/store"
	"saturn/internal/strategy"
)

// Server serves the backtest HTTP API.
type Server struct {
	runner   *backtest.Runner
	provider marketdata.Provider
	runs     store.RunStore
	defaults config.BacktestConfig
	log      *slog.Logger
}

// NewServer creates a Server. The provider is used directly by the bar
// browsing endpoint; the runner wraps the same provider for backtests.
func NewServer(runner *backtest.Runner, provider marketdata.Provider, runs store.RunStore, defaults config.BacktestConfig, log *slog.Logger) *Server {
	return &Server{
		runner:   runner,
		provider: provider,
		runs:     runs,
		defaults: defaults,
		log:      log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/strategies", s.handleStrategies)
	mux.HandleFunc("POST /api/backtest", s.handleBacktest)
	mux.HandleFunc("GET /api/backtests", s.handleListRuns)
	mux.HandleFunc("GET /api/backtests/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/bars/{symbol}", s.handleBars)
}

// Handler returns an http.Handler with CORS and request-log middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(s.logMiddleware(mux))
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, strategy.List())
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	capital := req.InitialCapital
	if capital == 0 {
		capital = s.defaults.InitialCapital
	}

	res, err := s.runner.Run(r.Context(), backtest.Request{
		Symbol:         req.Symbol,
		Start:          start,
		End:            end,
		Strategy:       strategy.Spec{ID: req.Strategy, Params: req.Parameters},
		InitialCapital: capital,
	})
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	run := &domain.BacktestRun{
		ID:             uuid.NewString(),
		Symbol:         req.Symbol,
		Strategy:       res.Strategy,
		Params:         req.Parameters,
		Start:          start,
		End:            end,
		InitialCapital: capital,
		CreatedAt:      time.Now().UTC(),
		Equity:         res.Equity,
		Trades:         res.Trades,
		Report:         res.Report,
	}
	if err := s.runs.SaveRun(r.Context(), run); err != nil {
		s.log.Error("persisting run", "id", run.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "persisting run: "+err.Error())
		return
	}

	writeJSON(w, BacktestResponse{
		ID:             run.ID,
		Symbol:         run.Symbol,
		Strategy:       run.Strategy,
		StartDate:      run.Start.Format(dateLayout),
		EndDate:        run.End.Format(dateLayout),
		InitialCapital: capital,
		Bars:           res.Bars,
		Report:         res.Report,
		Equity:         convertEquity(res.Equity),
		Trades:         convertTrades(res.Trades),
	})
}

// writeRunError maps pipeline failures to HTTP statuses: bad requests for
// invalid strategy or engine input, 404 when no data exists for the range,
// 422 when there is data but not enough to analyze.
func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	var paramErr *strategy.ParameterError
	var inputErr *backtest.InputError
	var insufErr *analytics.InsufficientDataError
	switch {
	case errors.As(err, &paramErr), errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, marketdata.ErrNoData):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &insufErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error("running backtest", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.log.Error("listing runs", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]RunSummaryJSON, len(runs))
	for i, run := range runs {
		out[i] = convertRunSummary(run)
	}
	writeJSON(w, out)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := s.runs.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no run with id "+id)
		return
	}
	if err != nil {
		s.log.Error("loading run", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, BacktestResponse{
		ID:             run.ID,
		Symbol:         run.Symbol,
		Strategy:       run.Strategy,
		StartDate:      run.Start.Format(dateLayout),
		EndDate:        run.End.Format(dateLayout),
		InitialCapital: run.InitialCapital,
		Bars:           len(run.Equity),
		Report:         run.Report,
		Equity:         convertEquity(run.Equity),
		Trades:         convertTrades(run.Trades),
	})
}

func (s *Server) handleBars(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	start, end, err := parseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bars, err := s.provider.DailyBars(r.Context(), symbol, start, end)
	if errors.Is(err, marketdata.ErrNoData) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.Error("loading bars", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, convertBars(bars))
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q, want YYYY-MM-DD", startStr)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q, want YYYY-MM-DD", endStr)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", endStr, startStr)
	}
	return start, end, nil
}
