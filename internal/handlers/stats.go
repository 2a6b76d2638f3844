package handlers

import (
	"net/http"

	"park-ticketing-platform/internal/services"
)

// StatsHandler serves the admin sales report
type StatsHandler struct {
	stats *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Report returns the running sales totals
func (h *StatsHandler) Report(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.stats.Report())
}
