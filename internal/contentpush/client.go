package contentpush

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FileStore reads and writes repository files. It is implemented by *Client.
type FileStore interface {
	GetFile(ctx context.Context, repo, filePath, ref string) (File, error)
	PutFile(ctx context.Context, repo, filePath string, update FileUpdate) (FileUpdateResult, error)
}

// Ensure Client implements FileStore at compile time.
var _ FileStore = (*Client)(nil)

// File is the subset of the contents API file payload we need.
type File struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
}

// FileUpdate is the body of a contents API write.
type FileUpdate struct {
	Message string `json:"message"`
	Content string `json:"content"` // base64
	SHA     string `json:"sha"`
	Branch  string `json:"branch"`
}

// FileUpdateResult carries the new file and commit revisions.
type FileUpdateResult struct {
	Content File `json:"content"`
	Commit  struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// Client talks to the GitHub contents API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL = "https://api.github.com"

	defaultUserAgent = "statusbox-content-update/0.1"
	acceptHeader     = "application/vnd.github.v3+json"
	requestTimeout   = 15 * time.Second
)

var errMissingToken = errors.New("github token is not configured")

// NewClient builds a Client for apiURL authenticating with token.
func NewClient(apiURL, token string) (*Client, error) {
	raw := strings.TrimSpace(apiURL)
	if raw == "" {
		raw = DefaultAPIURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse github api url %q: %w", apiURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse github api url %q: scheme and host required", apiURL)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")
	base.RawQuery = ""
	base.Fragment = ""
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		token:     strings.TrimSpace(token),
		userAgent: defaultUserAgent,
	}, nil
}

// GetFile reads the current revision of filePath on ref.
func (c *Client) GetFile(ctx context.Context, repo, filePath, ref string) (File, error) {
	query := url.Values{}
	if ref != "" {
		query.Set("ref", ref)
	}
	var file File
	if err := c.do(ctx, http.MethodGet, contentsPath(repo, filePath), query, nil, &file); err != nil {
		return File{}, err
	}
	if file.SHA == "" {
		return File{}, fmt.Errorf("file %s has no sha", filePath)
	}
	return file, nil
}

// PutFile writes a new revision of filePath.
func (c *Client) PutFile(ctx context.Context, repo, filePath string, update FileUpdate) (FileUpdateResult, error) {
	var result FileUpdateResult
	if err := c.do(ctx, http.MethodPut, contentsPath(repo, filePath), nil, update, &result); err != nil {
		return FileUpdateResult{}, err
	}
	return result, nil
}

func contentsPath(repo, filePath string) string {
	return "/repos/" + strings.Trim(repo, "/") + "/contents/" + strings.TrimPrefix(filePath, "/")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if c.token == "" {
		return errMissingToken
	}

	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + path
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("github %s %s returned status %d", method, path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
