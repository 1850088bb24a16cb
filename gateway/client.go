// Package gateway implements the authenticated HTTP client used by the
// catalog to reach the blob-store service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/memecat/memecat"

	"github.com/memecat/memecat/token"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Config holds the blob-store boundary location and the credentials used
// to authenticate against it.
type Config struct {
	RootURL  string `mapstructure:"root_url" validate:"required,url"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

// Client performs operations against the blob-store service. Every logical
// call re-authenticates and carries a fresh bearer token; nothing is cached.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.RootURL == "" {
		return nil, fmt.Errorf("new gateway client: root url is required")
	}

	cfg.RootURL = strings.TrimSuffix(cfg.RootURL, "/")

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// login fetches a fresh bearer token from the auth boundary.
func (c *Client) login(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RootURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login: status %d: %w", resp.StatusCode, memecat.ErrAuthenticationFailed)
	}

	var tok token.Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("login: decode response: %w", err)
	}

	if tok.AccessToken == "" {
		return "", fmt.Errorf("login: empty token: %w", memecat.ErrAuthenticationFailed)
	}

	return tok.AccessToken, nil
}

// CreateOrUpdate authenticates and forwards bytes plus description to the
// blob-store boundary as a multipart upload.
func (c *Client) CreateOrUpdate(ctx context.Context, name string, content io.Reader, description string) (memecat.SyncResult, error) {
	bearer, err := c.login(ctx)
	if err != nil {
		return memecat.SyncResult{}, fmt.Errorf("create or update %q: %w", name, err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return memecat.SyncResult{}, fmt.Errorf("create or update %q: %w", name, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return memecat.SyncResult{}, fmt.Errorf("create or update %q: read content: %w", name, err)
	}
	if err := mw.WriteField("description", description); err != nil {
		return memecat.SyncResult{}, fmt.Errorf("create or update %q: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return memecat.SyncResult{}, fmt.Errorf("create or update %q: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RootURL+"/minio/create_or_update", &body)
	if err != nil {
		return memecat.SyncResult{}, fmt.Errorf("create or update %q: %w", name, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)

	return c.doSync(req, "create or update", name)
}

// Get stats one object at the boundary.
func (c *Client) Get(ctx context.Context, name string) (memecat.SyncResult, error) {
	req, err := c.authedRequest(ctx, http.MethodGet, "/minio/get?name="+url.QueryEscape(name))
	if err != nil {
		return memecat.SyncResult{}, fmt.Errorf("get %q: %w", name, err)
	}

	return c.doSync(req, "get", name)
}

// List enumerates all objects at the boundary.
func (c *Client) List(ctx context.Context) ([]memecat.SyncResult, error) {
	req, err := c.authedRequest(ctx, http.MethodGet, "/minio/list")
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	var results []memecat.SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("list: decode response: %w", err)
	}

	return results, nil
}

// Delete removes one object at the boundary, returning its pre-deletion
// snapshot.
func (c *Client) Delete(ctx context.Context, name string) (memecat.SyncResult, error) {
	req, err := c.authedRequest(ctx, http.MethodDelete, "/minio/delete?name="+url.QueryEscape(name))
	if err != nil {
		return memecat.SyncResult{}, fmt.Errorf("delete %q: %w", name, err)
	}

	return c.doSync(req, "delete", name)
}

func (c *Client) authedRequest(ctx context.Context, method, path string) (*http.Request, error) {
	bearer, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.RootURL+path, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	return req, nil
}

func (c *Client) doSync(req *http.Request, op, name string) (memecat.SyncResult, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return memecat.SyncResult{}, fmt.Errorf("%s %q: %w", op, name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return memecat.SyncResult{}, fmt.Errorf("%s %q: %w", op, name, err)
	}

	var result memecat.SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return memecat.SyncResult{}, fmt.Errorf("%s %q: decode response: %w", op, name, err)
	}

	return result, nil
}

// classifyStatus maps boundary status codes back onto sentinel errors.
// Auth failures must never be mistaken for a missing object.
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return memecat.ErrAuthenticationFailed
	case code == http.StatusNotFound:
		return memecat.ErrNotFound
	case code == http.StatusUnprocessableEntity:
		return memecat.ErrUnprocessable
	default:
		return fmt.Errorf("unexpected status %d: %w", code, memecat.ErrStorageUnavailable)
	}
}
