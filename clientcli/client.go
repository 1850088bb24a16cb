// Package clientcli implements the client side of the catalog API, used by
// the memecat-cli command.
package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/memecat/memecat"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a catalog server.
type Client struct {
	endpoint   string
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
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if cfg.Endpoint == "" {
		return nil, ErrEndpointRequired
	}

	c := &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload uploads a local file with a description and returns the catalog
// record. The remote object name is the file's base name.
func (c *Client) Upload(ctx context.Context, localPath, description string) (memecat.Meme, error) {
	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return memecat.Meme{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return memecat.Meme{}, fmt.Errorf("upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return memecat.Meme{}, fmt.Errorf("upload: read file: %w", err)
	}
	if err := mw.WriteField("description", description); err != nil {
		return memecat.Meme{}, fmt.Errorf("upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return memecat.Meme{}, fmt.Errorf("upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/memes/", &body)
	if err != nil {
		return memecat.Meme{}, fmt.Errorf("upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var meme memecat.Meme
	if err := c.do(req, http.StatusCreated, &meme); err != nil {
		return memecat.Meme{}, fmt.Errorf("upload: %w", err)
	}

	return meme, nil
}

// List fetches one page of catalog records.
func (c *Client) List(ctx context.Context, offset, limit int) ([]memecat.Meme, error) {
	url := fmt.Sprintf("%s/memes/?offset=%d&limit=%d", c.endpoint, offset, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	var memes []memecat.Meme
	if err := c.do(req, http.StatusOK, &memes); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	return memes, nil
}

// Get fetches a catalog record by id.
func (c *Client) Get(ctx context.Context, id int64) (memecat.Meme, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/memes/"+strconv.FormatInt(id, 10), http.NoBody)
	if err != nil {
		return memecat.Meme{}, fmt.Errorf("get: %w", err)
	}

	var meme memecat.Meme
	if err := c.do(req, http.StatusOK, &meme); err != nil {
		return memecat.Meme{}, fmt.Errorf("get: %w", err)
	}

	return meme, nil
}

// Update patches a catalog record's metadata.
func (c *Client) Update(ctx context.Context, id int64, patch memecat.MemePatch) (memecat.Meme, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return memecat.Meme{}, fmt.Errorf("update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint+"/memes/"+strconv.FormatInt(id, 10), bytes.NewReader(payload))
	if err != nil {
		return memecat.Meme{}, fmt.Errorf("update: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var meme memecat.Meme
	if err := c.do(req, http.StatusOK, &meme); err != nil {
		return memecat.Meme{}, fmt.Errorf("update: %w", err)
	}

	return meme, nil
}

// Delete removes a catalog record (and its blob) by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint+"/memes/"+strconv.FormatInt(id, 10), http.NoBody)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if err := c.do(req, http.StatusOK, nil); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return parseServerError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	return nil
}
