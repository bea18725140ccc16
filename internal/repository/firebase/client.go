// Package firebase talks to a hosted realtime document database over its
// REST interface: GET reads a node, PATCH performs a multi-path merge and
// PUT overwrites. Paths map to URLs as <base>/<root>/<path>.json.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
)

type Client struct {
	baseURL      string
	rootPath     string
	authSecret   string
	httpClient   *http.Client
	streamClient *http.Client
	retryDelay   time.Duration
}

type Option func(*Client)

// WithAuthSecret appends ?auth=<secret> to every request. It accepts a
// legacy database secret or a user ID token.
func WithAuthSecret(secret string) Option {
	return func(c *Client) { c.authSecret = secret }
}

// WithHTTPClient replaces the client for both requests and streams. Pass
// an oauth2 client to authenticate with a bearer token.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.streamClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		// Streams stay open indefinitely, so only the request client gets it.
		cp := *c.httpClient
		cp.Timeout = d
		c.httpClient = &cp
	}
}

// WithRetryDelay sets the pause between stream reconnects.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

func NewClient(baseURL, rootPath string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(baseURL, "/")
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid firebase url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid firebase url: %q", baseURL)
	}

	c := &Client{
		baseURL:      trimmed,
		rootPath:     strings.Trim(rootPath, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		streamClient: &http.Client{},
		retryDelay:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// nodeURL builds the REST URL for a slash-separated path under the root.
func (c *Client) nodeURL(path string) string {
	parts := append(jsontree.SplitPath(c.rootPath), jsontree.SplitPath(path)...)
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	u := c.baseURL + "/" + strings.Join(parts, "/") + ".json"
	if c.authSecret != "" {
		u += "?" + url.Values{"auth": {c.authSecret}}.Encode()
	}
	return u
}

func (c *Client) Fetch(ctx context.Context) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, "", nil)
	if err != nil {
		return nil, err
	}

	var tree map[string]any
	if err := json.Unmarshal(body, &tree); err != nil {
		// A scalar root is not a tree; treat it as empty.
		var scalar any
		if json.Unmarshal(body, &scalar) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return tree, nil
}

func (c *Client) Patch(ctx context.Context, collection string, updates map[string]any) error {
	if len(jsontree.SplitPath(collection)) == 0 {
		return document.ErrInvalidPath
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := c.do(ctx, http.MethodPatch, collection, updates)
	return err
}

func (c *Client) Put(ctx context.Context, path string, value any) error {
	_, err := c.do(ctx, http.MethodPut, path, value)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil || method == http.MethodPut {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.nodeURL(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", document.ErrStoreUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", document.ErrStoreUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s: status %d: %s",
			document.ErrStoreUnavailable, method, path, resp.StatusCode, errorMessage(data))
	}
	return data, nil
}

// errorMessage extracts {"error": "..."} bodies returned by the database.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
