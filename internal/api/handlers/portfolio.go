package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/pkg/logger"
)

// PortfolioHandler serves stored portfolio snapshots
type PortfolioHandler struct {
	portfolios contracts.PortfolioRepository
	logger     *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolios contracts.PortfolioRepository, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios, logger: log}
}

type portfolioResponse struct {
	Date      string               `json:"date"`
	Count     int                  `json:"count"`
	Positions []contracts.Position `json:"positions"`
}

// GetLatest returns the most recent portfolio snapshot
// GET /api/v1/portfolio/latest
func (h *PortfolioHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok, err := h.portfolios.GetLatestSnapshotDate(ctx, time.Now().UTC().AddDate(0, 0, 1))
	if err != nil {
		h.logger.WithError(err).Error("failed to resolve latest snapshot date")
		respondError(w, http.StatusInternalServerError, "failed to resolve latest snapshot")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "no snapshots recorded yet")
		return
	}
	h.respondForDate(w, r, date)
}

// GetByDate returns the snapshot for one run date
// GET /api/v1/portfolio/{date}
func (h *PortfolioHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(mux.Vars(r)["date"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondForDate(w, r, date)
}

func (h *PortfolioHandler) respondForDate(w http.ResponseWriter, r *http.Request, date time.Time) {
	snapshot, err := h.portfolios.GetSnapshotByDate(r.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("failed to load snapshot")
		respondError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	if snapshot == nil {
		respondError(w, http.StatusNotFound, "no snapshot for date")
		return
	}

	respondJSON(w, http.StatusOK, portfolioResponse{
		Date:      snapshot.Date.Format("2006-01-02"),
		Count:     snapshot.Count(),
		Positions: snapshot.Positions,
	})
}

// queryInt reads a non-negative integer query parameter, 0 when absent
// or malformed
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
