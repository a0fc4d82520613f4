package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/weboff/api"
	"github.com/garnizeh/weboff/internal/config"
)

func newTestRouter(t *testing.T, cfg *config.Config, src *fakeSource, sender *fakeSender) http.Handler {
	t.Helper()
	deps := api.Deps{
		DB:       newTestDB(t),
		Projects: src,
		Logos:    staticLister{files: []string{"go.svg"}},
	}
	if sender != nil {
		deps.Mailer = sender
	}
	r, err := api.SetupRoutes(cfg, "test", "now", deps)
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}
	return r
}

func TestRoutes(t *testing.T) {
	cfg := &config.Config{Assets: config.AssetsConfig{HeroVideos: []string{"/video/a.webm"}}}
	router := newTestRouter(t, cfg, &fakeSource{projects: sampleProjects()}, &fakeSender{})

	cases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "Version", method: http.MethodGet, path: "/version", wantStatus: http.StatusOK},
		{name: "Health", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{name: "Projects", method: http.MethodGet, path: "/api/projects", wantStatus: http.StatusOK},
		{name: "AllProjectsOpen", method: http.MethodGet, path: "/api/projects?all=true", wantStatus: http.StatusOK},
		{name: "ProjectByID", method: http.MethodGet, path: "/api/projects/1", wantStatus: http.StatusOK},
		{name: "ProjectBadID", method: http.MethodGet, path: "/api/projects/abc", wantStatus: http.StatusBadRequest, wantError: "Invalid project ID"},
		{name: "ProjectMissing", method: http.MethodGet, path: "/api/projects/424242", wantStatus: http.StatusNotFound, wantError: "Project not found"},
		{name: "SearchMissingQuery", method: http.MethodGet, path: "/api/search", wantStatus: http.StatusBadRequest, wantError: "Missing search query"},
		{name: "Search", method: http.MethodGet, path: "/api/search?q=one", wantStatus: http.StatusOK},
		{name: "Stats", method: http.MethodGet, path: "/api/stats", wantStatus: http.StatusOK},
		{name: "Techs", method: http.MethodGet, path: "/api/techs", wantStatus: http.StatusOK},
		{name: "HeroVideos", method: http.MethodGet, path: "/api/hero-videos", wantStatus: http.StatusOK},
		{name: "ContactMissingName", method: http.MethodPost, path: "/api/contact", body: `{"name":"","email":"x@x.com","message":"hi"}`, wantStatus: http.StatusBadRequest, wantError: "Missing required fields"},
		{name: "ContactBadEmail", method: http.MethodPost, path: "/api/contact", body: `{"name":"A","email":"not-an-email","message":"hi"}`, wantStatus: http.StatusBadRequest, wantError: "Email is invalid"},
		{name: "Contact", method: http.MethodPost, path: "/api/contact", body: `{"name":"A","email":"a@x.com","message":"hi"}`, wantStatus: http.StatusOK},
		{name: "ContactPreflight", method: http.MethodOptions, path: "/api/contact", wantStatus: http.StatusNoContent},
		{name: "PreviewDisabled", method: http.MethodPost, path: "/api/auth/preview", body: `{"password":"x"}`, wantStatus: http.StatusNotFound},
		{name: "Unknown", method: http.MethodGet, path: "/api/nope", wantStatus: http.StatusNotFound, wantError: "Not found"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != c.wantStatus {
				t.Fatalf("want %d got %d: %s", c.wantStatus, w.Code, w.Body.String())
			}
			if c.wantError != "" {
				if e := decodeEnvelope(t, w); e.Success || e.Error != c.wantError {
					t.Fatalf("want %q got %+v", c.wantError, e)
				}
			}
		})
	}
}

func TestRoutes_PreviewFlow(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := &config.Config{Preview: config.PreviewConfig{
		JWTSecret:     "secret",
		PasswordHash:  string(hash),
		TokenDuration: time.Hour,
	}}
	src := &fakeSource{projects: sampleProjects()}
	router := newTestRouter(t, cfg, src, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects?all=true", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("drafts without token: want 401 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/preview", strings.NewReader(`{"password":"letmein"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("issue token: want 200 got %d", w.Code)
	}
	var tr struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &tr); err != nil {
		t.Fatalf("decode token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/projects?all=true", nil)
	req.Header.Set("Authorization", "Bearer "+tr.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("drafts with token: want 200 got %d", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Count == nil || *e.Count != 3 {
		t.Fatalf("expected all three projects, got %+v", e)
	}

	// aggregates stay public; only draft records are gated
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("stats without token: want 200 got %d", w.Code)
	}

	// no relay configured
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"A","email":"a@x.com","message":"hi"}`)))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("contact without relay: want 500 got %d", w.Code)
	}
}
