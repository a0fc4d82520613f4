// Package client is the Go consumer of the site's /api surface. Every call issues exactly one
// request and either returns the payload or an error; a failed envelope never yields a partial
// result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/garnizeh/weboff/pkg/models"
)

// APIError is returned when the envelope reports failure or carries no data.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// PreviewToken is sent as a bearer token when set; it unlocks draft projects.
	PreviewToken string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Count   *int   `json:"count"`
	Query   string `json:"query"`
}

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Health is the /api/health report. It is returned for both healthy and unhealthy answers.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h Health) Healthy() bool {
	return h.Status == "healthy"
}

func (c *Client) FetchProjects(ctx context.Context, includeInactive bool) ([]models.Project, error) {
	var q url.Values
	if includeInactive {
		q = url.Values{"all": {"true"}}
	}
	return call[[]models.Project](ctx, c, http.MethodGet, "/api/projects", q, nil, "Failed to fetch projects")
}

func (c *Client) FetchProjectByID(ctx context.Context, id int64) (models.Project, error) {
	return call[models.Project](ctx, c, http.MethodGet, "/api/projects/"+strconv.FormatInt(id, 10), nil, nil, "Failed to fetch project")
}

func (c *Client) SearchProjects(ctx context.Context, query string) ([]models.Project, error) {
	return call[[]models.Project](ctx, c, http.MethodGet, "/api/search", url.Values{"q": {query}}, nil, "Search failed")
}

func (c *Client) FetchStats(ctx context.Context) (models.Stats, error) {
	return call[models.Stats](ctx, c, http.MethodGet, "/api/stats", nil, nil, "Failed to fetch stats")
}

func (c *Client) FetchTechLogos(ctx context.Context) ([]string, error) {
	return call[[]string](ctx, c, http.MethodGet, "/api/techs", nil, nil, "Failed to load tech logos")
}

// RequestPreviewToken exchanges the preview password for a token and stores it on the client.
func (c *Client) RequestPreviewToken(ctx context.Context, password string) (string, error) {
	tr, err := call[struct {
		Token string `json:"token"`
	}](ctx, c, http.MethodPost, "/api/auth/preview", nil, map[string]string{"password": password}, "Failed to obtain preview token")
	if err != nil {
		return "", err
	}
	c.PreviewToken = tr.Token
	return tr.Token, nil
}

// SendContact posts the contact form. Only success matters; the response carries no data.
func (c *Client) SendContact(ctx context.Context, req ContactRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/contact", nil, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "Failed to send the message"}
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: orDefault(env.Error, "Failed to send the message")}
	}
	return nil
}

// CheckHealth returns the health report. An unhealthy service is not an error; only transport
// and decoding failures are.
func (c *Client) CheckHealth(ctx context.Context) (Health, error) {
	var h Health
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil, nil)
	if err != nil {
		return h, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return h, fmt.Errorf("decode health: %w", err)
	}
	return h, nil
}

// FetchHeroVideos returns the landing page video paths.
func (c *Client) FetchHeroVideos(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/hero-videos", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: "Failed to load hero videos"}
	}
	var body struct {
		Videos []string `json:"videos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode hero videos: %w", err)
	}
	return body.Videos, nil
}

func call[T any](ctx context.Context, c *Client, method, path string, q url.Values, body any, fallback string) (T, error) {
	var zero T
	resp, err := c.do(ctx, method, path, q, body)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, &APIError{Status: resp.StatusCode, Message: fallback}
	}
	if !env.Success || env.Data == nil {
		return zero, &APIError{Status: resp.StatusCode, Message: orDefault(env.Error, fallback)}
	}
	return *env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body any) (*http.Response, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.PreviewToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.PreviewToken)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return hc.Do(req)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
