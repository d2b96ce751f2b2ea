// Package gist is a minimal client for the GitHub Gists REST API, used as a
// remote document store holding one JSON file per document.
package gist

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

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// maxBody caps how much of a response body is read.
const maxBody = 10 << 20

// File is one file of a gist. Content may be cut short by the API for large
// files; Truncated is then true and RawURL serves the full content.
type File struct {
	Filename  string `json:"filename,omitempty"`
	Content   string `json:"content"`
	RawURL    string `json:"raw_url,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Gist is the subset of the API representation the app needs.
type Gist struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Public      bool             `json:"public"`
	HTMLURL     string           `json:"html_url,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Files       map[string]*File `json:"files"`
}

// CreateRequest is the body of POST /gists.
type CreateRequest struct {
	Description string           `json:"description"`
	Public      bool             `json:"public"`
	Files       map[string]*File `json:"files"`
}

type updateRequest struct {
	Files map[string]*File `json:"files"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gist api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("gist api: %d %s", e.StatusCode, e.Message)
}

// ErrNoID is returned when a successful response carries no gist id.
var ErrNoID = errors.New("gist api: response has no id")

// Client talks to a Gists API endpoint.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// NewClient returns a client for baseURL. A zero timeout leaves requests bounded only by ctx.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		userAgent: "go-shop-sync",
	}
}

// Create makes a new gist.
func (c *Client) Create(ctx context.Context, token string, req CreateRequest) (*Gist, error) {
	var g Gist
	if err := c.do(ctx, http.MethodPost, "/gists", token, req, &g); err != nil {
		return nil, err
	}
	if g.ID == "" {
		return nil, ErrNoID
	}
	return &g, nil
}

// Update replaces the given files of gist id. Files not named are left alone.
func (c *Client) Update(ctx context.Context, token, id string, files map[string]*File) (*Gist, error) {
	var g Gist
	if err := c.do(ctx, http.MethodPatch, "/gists/"+url.PathEscape(id), token, updateRequest{Files: files}, &g); err != nil {
		return nil, err
	}
	if g.ID == "" {
		return nil, ErrNoID
	}
	return &g, nil
}

// Get fetches gist id. token may be empty for gists readable without auth.
// Truncated files are completed from their raw URL.
func (c *Client) Get(ctx context.Context, id, token string) (*Gist, error) {
	var g Gist
	if err := c.do(ctx, http.MethodGet, "/gists/"+url.PathEscape(id), token, nil, &g); err != nil {
		return nil, err
	}
	for name, f := range g.Files {
		if f == nil || !f.Truncated || f.RawURL == "" {
			continue
		}
		content, err := c.raw(ctx, f.RawURL, token)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", name, err)
		}
		f.Content = content
		f.Truncated = false
	}
	return &g, nil
}

// Ping issues a cheap unauthenticated request. It only reports transport failures.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, rawURL, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
