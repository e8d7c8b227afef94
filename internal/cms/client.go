package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusFetcher reads the most recent status entry. It is implemented by
// *Client and can be replaced in tests.
type StatusFetcher interface {
	FetchLatestStatus(ctx context.Context) (*StatusEntry, error)
}

// Ensure Client implements StatusFetcher at compile time.
var _ StatusFetcher = (*Client)(nil)

// Client talks to the CMS collection API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the local development CMS address.
	DefaultBaseURL = "http://localhost:1337"

	defaultUserAgent = "statusbox/0.1"
	requestTimeout   = 10 * time.Second

	statusBoxesPath = "/api/status-boxes"
	// Kept unescaped so the request line matches what the CMS documents.
	latestStatusQuery = "populate=*&sort=updatedAt:desc&pagination[pageSize]=1"
)

// NewClient builds a Client for the given base URL. A bare host:port is
// treated as http.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchLatestStatus returns the most recently updated status entry, or nil
// when the collection is empty. A body without a data list is an error.
func (c *Client) FetchLatestStatus(ctx context.Context) (*StatusEntry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload *CollectionResponse
	if err := c.get(ctx, statusBoxesPath, latestStatusQuery, &payload); err != nil {
		return nil, err
	}
	if err := payload.validate(); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}
	entry := payload.Data[0]
	return &entry, nil
}

func (c *Client) get(ctx context.Context, path, rawQuery string, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = strings.TrimSuffix(reqURL.Path, "/") + path
	reqURL.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
