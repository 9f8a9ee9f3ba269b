// Package client is a typed HTTP client for the external products API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
)

const maxErrorBody = 4 << 10

// Client talks to the products API rooted at a base URL.
type Client struct {
	baseURL string
	hc      *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout bounds every API call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.hc
		hc.Timeout = d
		c.hc = &hc
	}
}

// New returns a Client for baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// List fetches the full product collection.
func (c *Client) List(ctx context.Context) ([]model.Product, error) {
	resp, err := c.do(ctx, "list", http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &Error{Op: "list", Kind: ErrMalformed, Status: resp.StatusCode, Err: err}
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// Create posts a new product. The response body is not interpreted.
func (c *Client) Create(ctx context.Context, d model.Draft) error {
	body, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "encode draft")
	}
	resp, err := c.do(ctx, "create", http.MethodPost, "/products", body)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// Delete removes the product with the given identifier.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	resp, err := c.do(ctx, "delete", http.MethodDelete, "/products/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// do issues the request and turns transport failures and non-2xx statuses
// into *Error. On success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := obs.RequestIDFromContext(ctx)
	if reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		obs.Logger.Warn("api_call_failed", "op", op, "method", method, "path", path, "error", err, "request_id", reqID)
		return nil, &Error{Op: op, Kind: ErrUnreachable, Err: err}
	}
	obs.Logger.Debug("api_call",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
		"request_id", reqID,
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &Error{Op: op, Kind: ErrRejected, Status: resp.StatusCode, Detail: errorDetail(resp.Body)}
	}
	return resp, nil
}

// errorDetail extracts a message from a JSON error body such as
// {"error":"validation_error","details":"..."} or {"detail":"..."}.
func errorDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(b) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
		Detail  any    `json:"detail"`
	}
	if json.Unmarshal(b, &payload) != nil {
		return ""
	}
	switch {
	case payload.Error != "" && payload.Details != "":
		return payload.Error + ": " + payload.Details
	case payload.Error != "":
		return payload.Error
	case payload.Detail != nil:
		if s, ok := payload.Detail.(string); ok {
			return s
		}
	}
	return ""
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
