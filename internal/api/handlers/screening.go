// Package handlers implements the HTTP endpoint handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/external/naver"
	"github.com/wonny/screener/internal/screening"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/logger"
)

// ScreeningHandler exposes scan runs and persisted results.
type ScreeningHandler struct {
	scanner  *screening.Scanner
	repo     contracts.ScreeningRepository
	universe *naver.Client
	cfg      *config.Config
	log      *logger.Logger
}

// NewScreeningHandler creates a ScreeningHandler
func NewScreeningHandler(
	scanner *screening.Scanner,
	repo contracts.ScreeningRepository,
	universe *naver.Client,
	cfg *config.Config,
	log *logger.Logger,
) *ScreeningHandler {
	return &ScreeningHandler{
		scanner:  scanner,
		repo:     repo,
		universe: universe,
		cfg:      cfg,
		log:      log,
	}
}

// runRequest is the POST /screening/run body. Zero values fall back
// to the configured defaults.
type runRequest struct {
	Market      string   `json:"market"` // KOSPI, KOSDAQ, or ALL
	Filters     []string `json:"filters"`
	CombineMode string   `json:"combine_mode"`
	MinScore    int      `json:"min_score"`
	PerfectOnly bool     `json:"perfect_only"`
	Limit       int      `json:"limit"`
	Tickers     []string `json:"tickers"` // optional explicit universe
}

// Run executes a scan and persists the results.
// POST /api/v1/screening/run
func (h *ScreeningHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req runRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if len(req.Filters) == 0 {
		req.Filters = h.cfg.Screening.Filters
	}
	if req.CombineMode == "" {
		req.CombineMode = h.cfg.Screening.CombineMode
	}
	if req.CombineMode != string(screening.CombineAny) && req.CombineMode != string(screening.CombineAll) {
		writeError(w, http.StatusBadRequest, "combine_mode must be \"any\" or \"all\"")
		return
	}
	if req.MinScore == 0 {
		req.MinScore = h.cfg.Screening.MinScore
	}
	if req.Limit <= 0 {
		req.Limit = h.cfg.Screening.Limit
	}
	if req.Market == "" {
		req.Market = "ALL"
	}

	tickers, err := h.resolveUniverse(r, req)
	if err != nil {
		writeError(w, http.StatusBadGateway, "universe fetch failed")
		return
	}

	opts := screening.ScanOptions{
		Options: screening.Options{
			Filters:     req.Filters,
			CombineMode: screening.CombineMode(req.CombineMode),
			MinScore:    req.MinScore,
			PerfectOnly: req.PerfectOnly,
		},
		Limit:   req.Limit,
		Workers: h.cfg.Screening.Workers,
	}

	result := h.scanner.Scan(ctx, tickers, opts)

	if err := h.repo.SaveResults(ctx, result.ScanDate, result.Signals); err != nil {
		h.log.WithError(err).Error("failed to persist screening results")
		// The scan itself succeeded; still return it.
	}

	writeJSON(w, http.StatusOK, result)
}

// Latest returns the most recent persisted scan.
// GET /api/v1/screening/latest?market=KOSPI&min_score=50&limit=20
func (h *ScreeningHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	market := r.URL.Query().Get("market")
	if market == "ALL" {
		market = ""
	}
	minScore := queryInt(r, "min_score", h.cfg.Screening.MinScore)
	limit := queryInt(r, "limit", 100)

	results, err := h.repo.LatestResults(ctx, market, minScore, limit)
	if err != nil {
		h.log.WithError(err).Error("failed to load latest results")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

func (h *ScreeningHandler) resolveUniverse(r *http.Request, req runRequest) ([]screening.Ticker, error) {
	if len(req.Tickers) > 0 {
		tickers := make([]screening.Ticker, 0, len(req.Tickers))
		for _, code := range req.Tickers {
			tickers = append(tickers, screening.Ticker{Code: code, Name: code, Market: req.Market})
		}
		return tickers, nil
	}

	markets := []string{"KOSPI", "KOSDAQ"}
	if req.Market == "KOSPI" || req.Market == "KOSDAQ" {
		markets = []string{req.Market}
	}

	var tickers []screening.Ticker
	for _, market := range markets {
		stocks, err := h.universe.FetchUniverse(r.Context(), market, 0)
		if err != nil {
			return nil, err
		}
		for _, s := range stocks {
			tickers = append(tickers, screening.Ticker{Code: s.Ticker, Name: s.Name, Market: s.Market})
		}
	}
	return tickers, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
