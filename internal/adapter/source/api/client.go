// Package api implements domain.BookmarkClient against the bookmark
// service's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/folio/internal/domain"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultBasePath   = "/api/v1"
	baseRetryDelay    = 500 * time.Millisecond
)

// Options tunes the client transport
type Options struct {
	BasePath   string        // API prefix, "/api/v1" when empty
	Timeout    time.Duration // Per-request timeout
	MaxRetries int           // Retries for 5xx responses; negative disables
}

// Client implements domain.BookmarkClient over HTTP
type Client struct {
	baseURL    string
	token      string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new bookmark API client
func NewClient(baseURL, token string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	basePath := opts.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := opts.MaxRetries
	if retries == 0 {
		retries = defaultMaxRetries
	}
	if retries < 0 {
		retries = 0
	}
	base := strings.TrimRight(baseURL, "/")
	if prefix := strings.Trim(basePath, "/"); prefix != "" {
		base += "/" + prefix
	}
	return &Client{
		baseURL:    base,
		token:      token,
		maxRetries: retries,
		retryDelay: baseRetryDelay,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated request and returns the response body.
// 5xx responses are retried with exponential backoff, except for POST which
// is not idempotent.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	retries := c.maxRetries
	if method == http.MethodPost {
		retries = 0
	}
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL, "request_id", requestID)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("X-Request-ID", requestID)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.logger.Debug("bookmark request", "method", method, "url", reqURL, "attempt", attempt, "request_id", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("bookmark request failed", "error", err, "request_id", requestID)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		status := resp.StatusCode
		switch {
		case status >= 200 && status < 300:
			return respBody, nil

		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthFailed, decodeProblem(status, respBody))

		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %w", domain.ErrNotFound, decodeProblem(status, respBody))

		case status >= 500 && status < 600:
			lastErr = decodeProblem(status, respBody)
			if attempt == retries {
				continue
			}
			c.logger.Warn("bookmark server error, will retry",
				"status", status,
				"body", string(respBody),
				"attempt", attempt,
				"maxRetries", retries,
				"path", path,
				"request_id", requestID,
			)
			continue

		default:
			c.logger.Error("bookmark request error", "status", status, "body", string(respBody), "request_id", requestID)
			return nil, decodeProblem(status, respBody)
		}
	}

	c.logger.Error("bookmark request failed after retries",
		"error", lastErr,
		"url", reqURL,
		"path", path,
		"request_id", requestID,
	)
	return nil, lastErr
}

// decodeProblem turns an error body into a *domain.ProblemDetail. Bodies
// that are not problem documents still yield one carrying the status text.
func decodeProblem(status int, body []byte) error {
	var p ProblemDTO
	if err := json.Unmarshal(body, &p); err == nil && (p.Title != "" || p.Detail != "") {
		if p.Status == 0 {
			p.Status = status
		}
		return mapProblem(p)
	}

	// business envelopes sometimes come back with an error status
	var r ResultDTO[json.RawMessage]
	if err := json.Unmarshal(body, &r); err == nil && r.Message != "" {
		return &domain.ProblemDetail{Title: http.StatusText(status), Status: status, Detail: r.Message}
	}

	return &domain.ProblemDetail{Title: http.StatusText(status), Status: status}
}

func decode[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("failed to parse response: %w", err)
	}
	return v, nil
}

func (c *Client) getList(ctx context.Context, path string, query url.Values) (domain.ListResult[domain.Bookmark], error) {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return domain.ListResult[domain.Bookmark]{}, err
	}
	resp, err := decode[ListResultDTO[BookmarkDTO]](body)
	if err != nil {
		return domain.ListResult[domain.Bookmark]{}, err
	}
	return mapListResult(resp), nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) (domain.Result[string], error) {
	body, err := c.doRequest(ctx, method, path, nil, payload)
	if err != nil {
		return domain.Result[string]{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.Result[string]{Success: true}, nil
	}
	resp, err := decode[ResultDTO[string]](body)
	if err != nil {
		return domain.Result[string]{}, err
	}
	return domain.Result[string]{Success: resp.Success, Message: resp.Message, Value: resp.Value}, nil
}

// GetFolder resolves the folder descriptor for path
func (c *Client) GetFolder(ctx context.Context, path string) (domain.Result[domain.Bookmark], error) {
	query := url.Values{}
	query.Set("path", path)

	body, err := c.doRequest(ctx, http.MethodGet, "/bookmarks/folder", query, nil)
	if err != nil {
		return domain.Result[domain.Bookmark]{}, err
	}
	resp, err := decode[ResultDTO[BookmarkDTO]](body)
	if err != nil {
		return domain.Result[domain.Bookmark]{}, err
	}
	return domain.Result[domain.Bookmark]{
		Success: resp.Success,
		Message: resp.Message,
		Value:   MapBookmark(resp.Value),
	}, nil
}

// GetByPath lists the entries of the folder at path
func (c *Client) GetByPath(ctx context.Context, path string) (domain.ListResult[domain.Bookmark], error) {
	query := url.Values{}
	query.Set("path", path)
	return c.getList(ctx, "/bookmarks/bypath", query)
}

// GetByName searches entries by display name
func (c *Client) GetByName(ctx context.Context, name string) (domain.ListResult[domain.Bookmark], error) {
	query := url.Values{}
	query.Set("name", name)
	return c.getList(ctx, "/bookmarks/byname", query)
}

// GetMostVisited returns the num most visited bookmarks
func (c *Client) GetMostVisited(ctx context.Context, num int) (domain.ListResult[domain.Bookmark], error) {
	return c.getList(ctx, "/bookmarks/mostvisited/"+strconv.Itoa(num), nil)
}

// GetByID fetches a single entry
func (c *Client) GetByID(ctx context.Context, id string) (domain.Bookmark, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/bookmarks/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return domain.Bookmark{}, err
	}
	resp, err := decode[BookmarkDTO](body)
	if err != nil {
		return domain.Bookmark{}, err
	}
	return MapBookmark(resp), nil
}

// GetAllPaths returns every folder path known to the service
func (c *Client) GetAllPaths(ctx context.Context) (domain.BookmarkPaths, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/bookmarks/allpaths", nil, nil)
	if err != nil {
		return domain.BookmarkPaths{}, err
	}
	resp, err := decode[PathsDTO](body)
	if err != nil {
		return domain.BookmarkPaths{}, err
	}
	paths := resp.Paths
	if paths == nil {
		paths = []string{}
	}
	return domain.BookmarkPaths{Paths: paths, Count: resp.Count}, nil
}

// Create adds a bookmark or folder
func (c *Client) Create(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	return c.send(ctx, http.MethodPost, "/bookmarks", ToDTO(b))
}

// Update replaces a bookmark; the id travels in the body
func (c *Client) Update(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	if b.ID == "" {
		return domain.Result[string]{}, errors.New("bookmark id is required")
	}
	return c.send(ctx, http.MethodPut, "/bookmarks", ToDTO(b))
}

// Delete removes a bookmark or folder
func (c *Client) Delete(ctx context.Context, id string) (domain.Result[string], error) {
	return c.send(ctx, http.MethodDelete, "/bookmarks/"+url.PathEscape(id), nil)
}

// UpdateSortOrder persists the order of a folder
func (c *Client) UpdateSortOrder(ctx context.Context, update domain.SortOrderUpdate) (domain.Result[string], error) {
	return c.send(ctx, http.MethodPut, "/bookmarks/sortorder", SortOrderDTO{
		IDs:       update.IDs,
		SortOrder: update.SortOrder,
	})
}

// GetAppInfo returns the service version and the authenticated user
func (c *Client) GetAppInfo(ctx context.Context) (domain.AppInfo, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/appinfo", nil, nil)
	if err != nil {
		return domain.AppInfo{}, err
	}
	resp, err := decode[AppInfoDTO](body)
	if err != nil {
		return domain.AppInfo{}, err
	}
	return mapAppInfo(resp), nil
}

var _ domain.BookmarkClient = (*Client)(nil)
