package api

import (
	"log/slog"
	"net/http"

	"github.com/garnizeh/weboff/internal/stats"
)

// Stats aggregates every project, drafts included.
func (h *ProjectsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	projects, err := h.source.ListProjects(r.Context(), true)
	if err != nil {
		logger.Error("failed to fetch statistics", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}

	writeJSON(w, ok(stats.Compute(projects, h.now())), http.StatusOK)
}
