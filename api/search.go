package api

import (
	"log/slog"
	"net/http"

	"github.com/garnizeh/weboff/pkg/models"
)

// Search matches q against project titles and descriptions. Drafts are never searched.
func (h *ProjectsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w,
			fail("Missing search query").withMessage("Please provide a search query using ?q=keyword"),
			http.StatusBadRequest)
		return
	}

	results, err := h.source.SearchProjects(r.Context(), query)
	if err != nil {
		logger.Error("search failed", slog.String("query", query), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	if results == nil {
		results = []models.Project{}
	}

	writeJSON(w, ok(results).withCount(len(results)).withQuery(query), http.StatusOK)
}
