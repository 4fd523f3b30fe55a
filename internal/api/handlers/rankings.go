package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/alphadesk/internal/contracts"
	"github.com/wonny/alphadesk/pkg/logger"
)

// RankingsHandler serves stored daily rankings
type RankingsHandler struct {
	scores contracts.ScoreRepository
	logger *logger.Logger
}

// NewRankingsHandler creates a new rankings handler
func NewRankingsHandler(scores contracts.ScoreRepository, log *logger.Logger) *RankingsHandler {
	return &RankingsHandler{scores: scores, logger: log}
}

type rankingsResponse struct {
	Date    string                `json:"date"`
	Count   int                   `json:"count"`
	Entries []contracts.RankEntry `json:"entries"`
}

// GetLatest returns the most recent run's rankings
// GET /api/v1/rankings/latest?top=N
func (h *RankingsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Tomorrow as the bound includes a run recorded today
	date, ok, err := h.scores.GetLatestRunDate(ctx, time.Now().UTC().AddDate(0, 0, 1))
	if err != nil {
		h.logger.WithError(err).Error("failed to resolve latest run date")
		respondError(w, http.StatusInternalServerError, "failed to resolve latest run")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "no runs recorded yet")
		return
	}
	h.respondForDate(w, r, date)
}

// GetByDate returns the rankings for one run date
// GET /api/v1/rankings/{date}?top=N
func (h *RankingsHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(mux.Vars(r)["date"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondForDate(w, r, date)
}

func (h *RankingsHandler) respondForDate(w http.ResponseWriter, r *http.Request, date time.Time) {
	entries, err := h.scores.GetScoresByDate(r.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("failed to load rankings")
		respondError(w, http.StatusInternalServerError, "failed to load rankings")
		return
	}
	if len(entries) == 0 {
		respondError(w, http.StatusNotFound, "no rankings for date")
		return
	}

	if top := queryInt(r, "top"); top > 0 && top < len(entries) {
		entries = entries[:top]
	}

	respondJSON(w, http.StatusOK, rankingsResponse{
		Date:    date.Format("2006-01-02"),
		Count:   len(entries),
		Entries: entries,
	})
}
