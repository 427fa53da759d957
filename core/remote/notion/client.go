package notion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lore-sync/core/remote"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	// APIVersion is the Notion-Version header sent with every request.
	APIVersion = "2022-06-28"
	pageSize   = 100
)

// Client is the Notion transport.
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
	logger  *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http.HTTPClient = h }
}

// WithBackoff sets the first retry delay; later delays double. Retry-After still wins.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = d
		if c.http.RetryWaitMax < d {
			c.http.RetryWaitMax = d
		}
	}
}

// New creates a Notion transport from the remote configuration.
// 429 and 5xx responses and network errors are retried up to cfg.MaxRetries times
// with exponential backoff, honouring Retry-After.
func New(cfg remote.Config, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.notion.com/v1"
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	rc.RetryMax = max(cfg.MaxRetries, 0)
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 30 * time.Second
	rc.CheckRetry = retryablehttp.DefaultRetryPolicy
	rc.Backoff = retryablehttp.DefaultBackoff
	// The last response is classified by the caller, not turned into a generic error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{logger.Named("notion").Sugar()}
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			logger.Warn("Retrying Notion request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("attempt", attempt),
			)
		}
	}

	c := &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    rc,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one API request and classifies the final response.
func (c *Client) do(ctx context.Context, op, table, method, path string, body, out any) error {
	var payload any
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &remote.CallError{Op: op, Table: table, Err: fmt.Errorf("encode request: %w", err)}
		}
		payload = data
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return &remote.CallError{Op: op, Table: table, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		if ctx.Err() != nil {
			return &remote.CallError{Op: op, Table: table, Err: ctx.Err()}
		}
		// Network errors and client timeouts stay retryable for the next cycle.
		return &remote.CallError{Op: op, Table: table, Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &remote.CallError{Op: op, Table: table, StatusCode: resp.StatusCode, Retryable: true, Err: err}
	}
	if resp.StatusCode >= 300 {
		return remote.NewCallError(op, table, resp.StatusCode, decodeAPIError(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &remote.CallError{Op: op, Table: table, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

func decodeAPIError(data []byte) error {
	var ae apiError
	if err := json.Unmarshal(data, &ae); err == nil && ae.Message != "" {
		return fmt.Errorf("%s: %s", ae.Code, ae.Message)
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "empty response"
	}
	return errors.New(msg)
}

// leveledLogger routes retryablehttp's own messages through zap.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }

// ListRows implements remote.Transport. Archived pages are skipped.
func (c *Client) ListRows(ctx context.Context, tableID string) ([]remote.Row, error) {
	var rows []remote.Row
	cursor := ""
	for {
		body := map[string]any{"page_size": pageSize}
		if cursor != "" {
			body["start_cursor"] = cursor
		}
		var resp queryResponse
		path := "/databases/" + url.PathEscape(tableID) + "/query"
		if err := c.do(ctx, "list_rows", tableID, http.MethodPost, path, body, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Results {
			if p.Archived || p.InTrash {
				continue
			}
			rows = append(rows, p.toRow())
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return rows, nil
		}
		cursor = resp.NextCursor
	}
}

// CreateRow implements remote.Transport.
func (c *Client) CreateRow(ctx context.Context, tableID string, props map[string]remote.Value) (string, error) {
	body := map[string]any{
		"parent":     map[string]any{"database_id": tableID},
		"properties": encodeProperties(props),
	}
	var created page
	if err := c.do(ctx, "create_row", tableID, http.MethodPost, "/pages", body, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", &remote.CallError{Op: "create_row", Table: tableID, Err: errors.New("response has no page id")}
	}
	return created.ID, nil
}

// UpdateRow implements remote.Transport.
func (c *Client) UpdateRow(ctx context.Context, tableID, rowID string, props map[string]remote.Value) error {
	body := map[string]any{"properties": encodeProperties(props)}
	return c.do(ctx, "update_row", tableID, http.MethodPatch, "/pages/"+url.PathEscape(rowID), body, nil)
}

// CreateProperty implements remote.Transport. Relation properties need a target
// database and cannot be created from a type alone.
func (c *Client) CreateProperty(ctx context.Context, tableID, name string, t remote.PropertyType) error {
	stub, ok := propertyStub(t)
	if !ok {
		return remote.NewCallError("create_property", tableID, http.StatusBadRequest,
			fmt.Errorf("property %q: type %s cannot be created automatically", name, t))
	}
	body := map[string]any{"properties": map[string]any{name: stub}}
	return c.do(ctx, "create_property", tableID, http.MethodPatch, "/databases/"+url.PathEscape(tableID), body, nil)
}

// GetSchema implements remote.Transport. Unsupported property types are reported
// under their raw Notion type name.
func (c *Client) GetSchema(ctx context.Context, tableID string) (remote.Schema, error) {
	var db database
	if err := c.do(ctx, "get_schema", tableID, http.MethodGet, "/databases/"+url.PathEscape(tableID), nil, &db); err != nil {
		return nil, err
	}
	schema := make(remote.Schema, len(db.Properties))
	for name, p := range db.Properties {
		schema[name] = remote.PropertyType(p.Type)
	}
	return schema, nil
}

// Ping implements remote.Transport.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", "", http.MethodGet, "/users/me", nil, nil)
}
