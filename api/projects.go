package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/garnizeh/weboff/pkg/models"
)

// ProjectSource is the content gateway the project handlers read from. *strapi.Client satisfies it.
type ProjectSource interface {
	ListProjects(ctx context.Context, includeInactive bool) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	SearchProjects(ctx context.Context, query string) ([]models.Project, error)
}

type ProjectsHandler struct {
	source ProjectSource
	now    func() time.Time
}

func NewProjectsHandler(source ProjectSource) *ProjectsHandler {
	return &ProjectsHandler{source: source, now: time.Now}
}

func (h *ProjectsHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("all") == "true"

	projects, err := h.source.ListProjects(r.Context(), includeInactive)
	if err != nil {
		logger.Error("failed to fetch projects", slog.Bool("all", includeInactive), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	writeJSON(w, ok(projects).withCount(len(projects)), http.StatusOK)
}

func (h *ProjectsHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, valid := parseLeadingInt(raw)
	if !valid {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.source.GetProject(r.Context(), id)
	if err != nil {
		logger.Error("failed to fetch project", slog.String("id", raw), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch project")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	writeJSON(w, ok(*project), http.StatusOK)
}

// parseLeadingInt reads the base-10 integer at the start of s, ignoring leading white space and
// anything after the digits. "42abc" is 42; "abc" and "" are invalid.
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
