// Package api is the HTTP client for the task REST backend.
package api

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

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

const (
	tasksPath = "/api/tasks"

	// DefaultTimeout bounds every request when the caller does not set one.
	DefaultTimeout = 15 * time.Second

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10

	requestIDHeader = "X-Request-ID"
)

// StatusError is returned for non-2xx responses. Message holds the body's
// "error" field, or "" when the body carries none.
type StatusError struct {
	StatusCode int
	Message    string
	RequestID  string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// TransportError wraps failures to send a request or read its response.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the task backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sends requests through hc. hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Non-positive values keep the
// HTTP client's own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(u.String(), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// ListTasks fetches the full task collection.
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, tasksPath, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task from d. The returned task is nil when the
// backend answers with something other than a single record.
func (c *Client) CreateTask(ctx context.Context, d task.Draft) (*task.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, tasksPath, d, &raw); err != nil {
		return nil, err
	}
	return decodeRecord(raw), nil
}

// UpdateTask replaces the fields of task id with d.
func (c *Client) UpdateTask(ctx context.Context, id task.ID, d task.Draft) (*task.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, taskPath(id), d, &raw); err != nil {
		return nil, err
	}
	return decodeRecord(raw), nil
}

// DeleteTask deletes task id.
func (c *Client) DeleteTask(ctx context.Context, id task.ID) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id task.ID) string {
	return tasksPath + "/" + url.PathEscape(id.String())
}

// decodeRecord accepts a single task object. The reference backend answers
// a create with the whole rescheduled list, which carries no single record.
func decodeRecord(raw json.RawMessage) *task.Task {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var t task.Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil
	}
	return &t
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := c.newID()
	req.Header.Set(requestIDHeader, reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
			RequestID:  reqID,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// errorMessage extracts the "error" field of a JSON error body.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Error)
}

// Message returns the user-facing text for err: the backend's own message
// when it sent one, otherwise fallback.
func Message(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
