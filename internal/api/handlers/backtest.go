package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/alphadesk/internal/backtest"
	"github.com/wonny/alphadesk/pkg/logger"
)

// BacktestHandler evaluates forward performance on demand
type BacktestHandler struct {
	engine *backtest.Engine
	logger *logger.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(engine *backtest.Engine, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{engine: engine, logger: log}
}

// Run evaluates the most recent snapshot against the benchmark
// GET /api/v1/backtest?horizon=N
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	horizon := queryInt(r, "horizon")

	result, err := h.engine.Run(r.Context(), time.Now().UTC().AddDate(0, 0, 1), horizon)
	if err != nil {
		h.logger.WithError(err).Error("backtest failed")
		respondError(w, http.StatusInternalServerError, "backtest failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
