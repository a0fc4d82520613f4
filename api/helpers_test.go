package api_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	dbfs "github.com/garnizeh/weboff/db"
	"github.com/garnizeh/weboff/internal/db"
	"github.com/garnizeh/weboff/internal/mailer"
	"github.com/garnizeh/weboff/pkg/models"
)

// fakeSource serves projects from memory and records the calls it gets.
type fakeSource struct {
	projects []models.Project
	err      error

	mu       sync.Mutex
	listAll  []bool
	searched []string
	getIDs   []int64
}

func (f *fakeSource) ListProjects(ctx context.Context, includeInactive bool) ([]models.Project, error) {
	f.mu.Lock()
	f.listAll = append(f.listAll, includeInactive)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if includeInactive {
		return f.projects, nil
	}
	var out []models.Project
	for _, p := range f.projects {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSource) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	f.mu.Lock()
	f.getIDs = append(f.getIDs, id)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeSource) SearchProjects(ctx context.Context, query string) ([]models.Project, error) {
	f.mu.Lock()
	f.searched = append(f.searched, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.projects, nil
}

type fakeSender struct {
	err  error
	mu   sync.Mutex
	sent []mailer.Message
}

func (s *fakeSender) Send(ctx context.Context, m mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
	return s.err
}

func skills(names ...string) []models.Skill {
	out := make([]models.Skill, 0, len(names))
	for i, n := range names {
		out = append(out, models.Skill{ID: int64(i + 1), Name: n, Level: models.LevelIntermediate})
	}
	return out
}

// sampleProjects has skill frequencies A:3, C:2, B:1 and one draft.
func sampleProjects() []models.Project {
	return []models.Project{
		{ID: 1, Title: "One", IsActive: true, Media: []models.Media{}, Skills: skills("A", "B", "C")},
		{ID: 2, Title: "Two", IsActive: true, Media: []models.Media{}, Skills: skills("A", "C")},
		{ID: 3, Title: "Three", IsActive: false, Media: []models.Media{}, Skills: skills("A")},
	}
}

// envelope mirrors the response body loosely for assertions.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Query   string          `json:"query"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, w.Body.String())
	}
	return e
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}
