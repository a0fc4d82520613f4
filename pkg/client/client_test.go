package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/weboff/pkg/client"
	"github.com/garnizeh/weboff/pkg/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := client.New(srv.URL + "/")
	c.HTTPClient = srv.Client()
	return c
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestFetchProjects(t *testing.T) {
	var gotQuery atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		gotQuery.Store(r.URL.RawQuery)
		respond(w, http.StatusOK, `{"success":true,"data":[{"id":1,"title":"A","is_active":true,"media":[],"skills":[]}],"count":1}`)
	})

	ps, err := c.FetchProjects(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, int64(1), ps[0].ID)
	assert.Equal(t, "", gotQuery.Load())

	_, err = c.FetchProjects(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "all=true", gotQuery.Load())
}

func TestFetchProjects_EmptyListIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"success":true,"data":[],"count":0}`)
	})

	ps, err := c.FetchProjects(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestEnvelopeFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{name: "server message", status: http.StatusNotFound, body: `{"success":false,"error":"Project not found"}`, wantStatus: 404, wantMessage: "Project not found"},
		{name: "success without data", status: http.StatusOK, body: `{"success":true}`, wantStatus: 200, wantMessage: "Failed to fetch project"},
		{name: "failure without message", status: http.StatusInternalServerError, body: `{"success":false}`, wantStatus: 500, wantMessage: "Failed to fetch project"},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantStatus: 502, wantMessage: "Failed to fetch project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/projects/7", r.URL.Path)
				respond(w, tt.status, tt.body)
			})

			_, err := c.FetchProjectByID(context.Background(), 7)
			require.Error(t, err)
			var ae *client.APIError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantStatus, ae.Status)
			assert.Equal(t, tt.wantMessage, ae.Message)
			assert.True(t, client.IsStatus(err, tt.wantStatus))
		})
	}
}

func TestSearchProjects_EncodesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "c++ & go", r.URL.Query().Get("q"))
		respond(w, http.StatusOK, `{"success":true,"data":[],"count":0,"query":"c++ & go"}`)
	})

	_, err := c.SearchProjects(context.Background(), "c++ & go")
	require.NoError(t, err)
}

func TestFetchStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"success":true,"data":{"total":3,"active":2,"inactive":1,
			"topTechnologies":[{"tech":"A","count":3},{"tech":"C","count":2}],"lastUpdated":"2026-01-02T03:04:05Z"}}`)
	})

	st, err := c.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, []models.TechCount{{Tech: "A", Count: 3}, {Tech: "C", Count: 2}}, st.TopTechnologies)
}

func TestFetchTechLogos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusInternalServerError, `{"success":false}`)
	})

	_, err := c.FetchTechLogos(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load tech logos")
}

func TestSendContact(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var got client.ContactRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&got)) {
			respond(w, http.StatusBadRequest, `{"success":false,"error":"Invalid request body"}`)
			return
		}
		assert.Equal(t, "A", got.Name)
		if got.Email == "bad" {
			respond(w, http.StatusBadRequest, `{"success":false,"error":"Email is invalid"}`)
			return
		}
		respond(w, http.StatusOK, `{"success":true}`)
	})

	require.NoError(t, c.SendContact(context.Background(), client.ContactRequest{Name: "A", Email: "a@b.co", Message: "hi"}))

	err := c.SendContact(context.Background(), client.ContactRequest{Name: "A", Email: "bad", Message: "hi"})
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "Email is invalid")
}

func TestCheckHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			respond(w, http.StatusOK, `{"status":"healthy","database":"connected","timestamp":"t"}`)
			return
		}
		respond(w, http.StatusServiceUnavailable, `{"status":"unhealthy","database":"error","error":"boom"}`)
	})

	h, err := c.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Healthy())

	healthy.Store(false)
	h, err = c.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.False(t, h.Healthy())
	assert.Equal(t, "boom", h.Error)
}

func TestPreviewTokenIsSent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/preview":
			respond(w, http.StatusOK, `{"success":true,"data":{"token":"tok"}}`)
		case "/api/projects":
			if r.Header.Get("Authorization") != "Bearer tok" {
				respond(w, http.StatusUnauthorized, `{"success":false,"error":"Unauthorized"}`)
				return
			}
			respond(w, http.StatusOK, `{"success":true,"data":[],"count":0}`)
		}
	})

	_, err := c.FetchProjects(context.Background(), true)
	require.True(t, client.IsStatus(err, http.StatusUnauthorized))

	tok, err := c.RequestPreviewToken(context.Background(), "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	_, err = c.FetchProjects(context.Background(), true)
	require.NoError(t, err)
}

func TestFetchHeroVideos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"videos":["/video/a.webm"]}`)
	})

	v, err := c.FetchHeroVideos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/video/a.webm"}, v)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := client.New(base)
	c.HTTPClient = &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	_, err := c.FetchProjects(context.Background(), false)
	require.Error(t, err)
	var ae *client.APIError
	assert.False(t, errors.As(err, &ae), "transport errors are returned unchanged")
}
