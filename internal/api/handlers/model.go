package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/alphadesk/internal/model"
	"github.com/wonny/alphadesk/pkg/logger"
)

// ModelHandler triggers pipeline runs over HTTP
type ModelHandler struct {
	runner *model.Runner
	logger *logger.Logger
}

// NewModelHandler creates a new model handler
func NewModelHandler(runner *model.Runner, log *logger.Logger) *ModelHandler {
	return &ModelHandler{runner: runner, logger: log}
}

type runResponse struct {
	Date      string  `json:"date"`
	Universe  int     `json:"universe"`
	Admitted  int     `json:"admitted"`
	Ranked    int     `json:"ranked"`
	Positions int     `json:"positions"`
	Replayed  bool    `json:"replayed"`
	Duration  float64 `json:"duration_seconds"`
}

// TriggerRun runs the daily pipeline for today, or for ?date=YYYY-MM-DD
// POST /api/v1/model/run
func (h *ModelHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		date = parsed
	}

	result, err := h.runner.RunDaily(r.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("daily run failed")
		respondError(w, http.StatusInternalServerError, "daily run failed")
		return
	}

	positions := 0
	if result.Snapshot != nil {
		positions = result.Snapshot.Count()
	}
	respondJSON(w, http.StatusOK, runResponse{
		Date:      result.Date.Format("2006-01-02"),
		Universe:  result.UniverseSize,
		Admitted:  result.Admitted,
		Ranked:    result.Ranked,
		Positions: positions,
		Replayed:  result.Replayed,
		Duration:  result.Duration.Seconds(),
	})
}
