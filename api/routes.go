package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/weboff/internal/assets"
	"github.com/garnizeh/weboff/internal/config"
	"github.com/garnizeh/weboff/internal/db"
	"github.com/garnizeh/weboff/internal/mailer"
	"github.com/garnizeh/weboff/internal/repository/sqlite"
	"github.com/garnizeh/weboff/pkg/repository"
)

// Deps are the long-lived resources the handlers share. They are owned by the caller.
type Deps struct {
	DB       *db.DB
	Projects ProjectSource
	// Mailer is nil when the SMTP relay is not configured.
	Mailer mailer.Sender
	Logos  assets.Lister
}

func SetupRoutes(cfg *config.Config, version, buildTime string, deps Deps) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	r.NotFoundHandler = LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	}))

	// Repository
	var (
		store Pinger
		repo  repository.InquiryRepo
	)
	if deps.DB != nil {
		store = deps.DB
		repo = sqlite.New(deps.DB, logger)
	}

	// Create handlers
	systemHandler := NewSystemHandler(store, version)
	projectsHandler := NewProjectsHandler(deps.Projects)
	assetsHandler := NewAssetsHandler(deps.Logos, cfg.Assets.HeroVideos)
	contactHandler, err := NewContactHandler(deps.Mailer, repo)
	if err != nil {
		return nil, err
	}

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)

	apiR := r.PathPrefix("/api").Subrouter()
	apiR.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)
	apiR.HandleFunc("/techs", assetsHandler.Techs).Methods(http.MethodGet)
	apiR.HandleFunc("/hero-videos", assetsHandler.HeroVideos).Methods(http.MethodGet)
	apiR.HandleFunc("/contact", contactHandler.Submit).Methods(http.MethodPost, http.MethodOptions)

	// Project endpoints; draft records are gated when a preview secret is configured, aggregates are not
	apiR.Handle("/projects", PreviewGuard(cfg.Preview.JWTSecret)(http.HandlerFunc(projectsHandler.ListProjects))).Methods(http.MethodGet)
	apiR.HandleFunc("/projects/{id}", projectsHandler.GetProject).Methods(http.MethodGet)
	apiR.HandleFunc("/search", projectsHandler.Search).Methods(http.MethodGet)
	apiR.HandleFunc("/stats", projectsHandler.Stats).Methods(http.MethodGet)

	if cfg.Preview.Enabled() {
		authHandler := NewPreviewAuthHandler(cfg.Preview.PasswordHash, cfg.Preview.JWTSecret, cfg.Preview.TokenDuration)
		apiR.HandleFunc("/auth/preview", authHandler.IssueToken).Methods(http.MethodPost, http.MethodOptions)
	}

	return r, nil
}
