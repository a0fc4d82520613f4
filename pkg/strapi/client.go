package strapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/garnizeh/weboff/internal/config"
	"github.com/garnizeh/weboff/pkg/models"
)

// ErrMissingAPIKey is returned by every call when no access key is configured.
var ErrMissingAPIKey = errors.New("strapi: STRAPI_API_KEY is not defined")

// StatusError is returned when the CMS answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("strapi: request failed with status %d: %s", e.StatusCode, e.Status)
}

// IsNotFound reports whether err is a CMS 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Publication states understood by the CMS.
const (
	StateLive    = "live"
	StatePreview = "preview"
)

// maxErrorBody bounds how much of a failed response is read for logging.
const maxErrorBody = 64 << 10

// Client fetches project data from the CMS and normalizes it. It holds no per-request state;
// every call is a fresh, uncached round trip.
type Client struct {
	cfg    config.StrapiConfig
	base   *url.URL
	client *http.Client
	closed int32
}

// package-level logger for pkg/strapi; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/strapi. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// NewClient creates a CMS client. The API key is not checked here.
func NewClient(cfg config.StrapiConfig, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	logger.Info("strapi: NewClient created", slog.String("base_url", cfg.BaseURL), slog.Bool("api_key_set", cfg.APIKey != ""))
	return &Client{cfg: cfg, base: u, client: httpClient}, nil
}

func NewDefaultClient(cfg config.StrapiConfig) (*Client, error) {
	defaultClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewClient(cfg, defaultClient)
}

// Close releases idle connections held by the underlying transport. It is idempotent.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

// ListProjects returns published projects, or every project (drafts included) when
// includeInactive is set. Order is whatever the CMS returns.
func (c *Client) ListProjects(ctx context.Context, includeInactive bool) ([]models.Project, error) {
	state := StateLive
	if includeInactive {
		state = StatePreview
	}

	q := url.Values{}
	q.Set("publicationState", state)

	var resp Response[[]RemoteProject]
	if err := c.fetch(ctx, "/projects", q, &resp); err != nil {
		return nil, err
	}
	return NormalizeProjects(resp.Data), nil
}

// GetProject returns the project with the given id, or nil when the CMS does not know it.
func (c *Client) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var resp Response[*RemoteProject]
	err := c.fetch(ctx, "/projects/"+strconv.FormatInt(id, 10), nil, &resp)
	if IsNotFound(err) {
		logger.Warn("strapi: project not found", slog.Int64("id", id))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}

	p := NormalizeProject(*resp.Data)
	return &p, nil
}

// SearchProjects matches query case-insensitively against title or description. Only published
// projects are searched.
func (c *Client) SearchProjects(ctx context.Context, query string) ([]models.Project, error) {
	q := url.Values{}
	q.Set("filters[$or][0][title][$containsi]", query)
	q.Set("filters[$or][1][description][$containsi]", query)
	q.Set("publicationState", StateLive)

	var resp Response[[]RemoteProject]
	if err := c.fetch(ctx, "/projects", q, &resp); err != nil {
		return nil, err
	}
	return NormalizeProjects(resp.Data), nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set("populate", "*")

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/api" + path
	u.RawPath = ""
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) fetch(ctx context.Context, path string, q url.Values, out any) error {
	if c.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	u := c.endpoint(path, q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("strapi: request failed", slog.String("path", path), slog.Any("err", err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Error("strapi: API error",
			slog.Int("status", resp.StatusCode),
			slog.String("path", path),
			slog.String("body", string(body)),
		)
		return &StatusError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("strapi: decode response: %w", err)
	}
	return nil
}
