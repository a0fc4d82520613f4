package api

import (
	"log/slog"
	"net/http"

	"github.com/garnizeh/weboff/internal/assets"
)

type AssetsHandler struct {
	logos      assets.Lister
	heroVideos []string
}

func NewAssetsHandler(logos assets.Lister, heroVideos []string) *AssetsHandler {
	if heroVideos == nil {
		heroVideos = []string{}
	}
	return &AssetsHandler{logos: logos, heroVideos: heroVideos}
}

// Techs lists the technology logos. The listing is read on every call.
func (h *AssetsHandler) Techs(w http.ResponseWriter, r *http.Request) {
	if h.logos == nil {
		writeError(w, http.StatusInternalServerError, "Failed to list technologies")
		return
	}
	files, err := h.logos.List(r.Context())
	if err != nil {
		logger.Error("failed to list tech logos", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Failed to list technologies")
		return
	}
	if files == nil {
		files = []string{}
	}

	writeJSON(w, ok(files).withCount(len(files)), http.StatusOK)
}

type heroVideosResponse struct {
	Videos []string `json:"videos"`
}

func (h *AssetsHandler) HeroVideos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, heroVideosResponse{Videos: h.heroVideos}, http.StatusOK)
}
