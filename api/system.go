package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger checks the local store. *db.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	store   Pinger
	version string
	now     func() time.Time
}

func NewSystemHandler(store Pinger, version string) *SystemHandler {
	return &SystemHandler{store: store, version: version, now: time.Now}
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ts := h.now().UTC().Format(time.RFC3339Nano)

	if h.store == nil {
		writeJSON(w, healthResponse{Status: "unhealthy", Timestamp: ts, Database: "error", Error: "no database"}, http.StatusServiceUnavailable)
		return
	}
	if err := h.store.Ping(r.Context()); err != nil {
		logger.Error("health check failed", slog.Any("err", err))
		writeJSON(w, healthResponse{Status: "unhealthy", Timestamp: ts, Database: "error", Error: err.Error()}, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, healthResponse{Status: "healthy", Timestamp: ts, Database: "connected", Version: h.version}, http.StatusOK)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"version": version, "buildTime": buildTime}, http.StatusOK)
	}
}
