// Package directory talks to the admin directory API: it lists admins and relays a selection.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/logging"
)

const (
	adminsPath = "/admins"
	selectPath = "/select-admin"

	defaultTimeout = 8 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client fetches the admin list and submits selections.
type Client struct {
	base   string
	http   *http.Client
	logger *logging.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *logging.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http = &http.Client{Timeout: d}
		}
	}
}

// New builds a Client for the API rooted at baseURL (for example http://localhost:8080/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.base
}

// FetchAdmins retrieves the full directory. Any failure is returned as a
// *NetworkError or *ProtocolError; the caller decides what to clear.
func (c *Client) FetchAdmins(ctx context.Context) ([]model.Admin, error) {
	endpoint := c.base + adminsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build admins request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(logging.RequestIDHeader, uuid.New().String())

	body, status, err := c.do(req)
	if err != nil {
		return nil, &NetworkError{Op: "fetch admins", Err: err}
	}
	if status < 200 || status >= 300 {
		return nil, &ProtocolError{
			Op:         "fetch admins",
			StatusCode: status,
			Reason:     fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
		}
	}

	if !gjson.ValidBytes(body) {
		return nil, &ProtocolError{Op: "fetch admins", StatusCode: status, Reason: "invalid JSON in admins response"}
	}
	success := gjson.GetBytes(body, "success")
	list := gjson.GetBytes(body, "admins")
	if !truthy(success) || !list.IsArray() {
		return nil, &ProtocolError{Op: "fetch admins", StatusCode: status, Reason: "unexpected response format"}
	}

	var raw []model.Admin
	if err := json.Unmarshal([]byte(list.Raw), &raw); err != nil {
		return nil, &ProtocolError{Op: "fetch admins", StatusCode: status, Reason: fmt.Sprintf("decode admins: %v", err)}
	}

	admins := Normalize(raw, c.logger)
	c.logger.Info("directory", "admins loaded", map[string]any{"count": len(admins), "endpoint": endpoint})
	return admins, nil
}

// SelectAdmin posts the user's choice. A falsy success flag yields *ApplicationError
// with the server's error text.
func (c *Client) SelectAdmin(ctx context.Context, payload model.SelectRequest) (model.SelectResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return model.SelectResponse{}, fmt.Errorf("encode select request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+selectPath, bytes.NewReader(encoded))
	if err != nil {
		return model.SelectResponse{}, fmt.Errorf("build select request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(logging.RequestIDHeader, uuid.New().String())

	body, status, err := c.do(req)
	if err != nil {
		return model.SelectResponse{}, &NetworkError{Op: "select admin", Err: err}
	}

	// The body is read whatever the status: the API explains rejections in JSON.
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return model.SelectResponse{}, &ProtocolError{
			Op:         "select admin",
			StatusCode: status,
			Reason:     fmt.Sprintf("HTTP %d: invalid JSON in select response", status),
		}
	}
	parsed := gjson.ParseBytes(body)
	resp := model.SelectResponse{
		Success: truthy(parsed.Get("success")),
		Message: parsed.Get("message").String(),
		Error:   parsed.Get("error").String(),
	}
	if !resp.Success {
		return resp, &ApplicationError{Message: resp.Error}
	}
	return resp, nil
}

// Normalize drops records without a tag and clamps ratings to be non-negative.
func Normalize(raw []model.Admin, logger *logging.Logger) []model.Admin {
	admins := make([]model.Admin, 0, len(raw))
	for _, admin := range raw {
		admin.Tag = strings.TrimSpace(admin.Tag)
		if admin.Tag == "" {
			logger.Warn("directory", "dropping admin without tag", map[string]any{"status": admin.Status})
			continue
		}
		if admin.Rating < 0 || math.IsNaN(admin.Rating) {
			admin.Rating = 0
		}
		admins = append(admins, admin)
	}
	return admins
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// truthy applies JavaScript truthiness to a JSON value.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0 && !math.IsNaN(r.Num)
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}
