// Package apiclient is the HTTP client for the data API, shared by the
// portal (internal surface, service-token auth) and the MCP companion
// (public surface, API-key auth).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dErrors "docport/pkg/domain-errors"
)

// Client is the transport shared by both authenticated views.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mostly for tests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New constructs a client for the data API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request and decodes the JSON response into out (which may be
// nil). Non-2xx responses become coded domain errors; transport failures
// surface as CodeUnavailable so callers can fail closed.
func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "data API unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to decode response")
	}
	return nil
}

// decodeError rebuilds the coded domain error from the standard envelope, so
// HasCode works identically on both sides of the wire.
func decodeError(resp *http.Response) error {
	var envelope struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error == "" {
		return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("data API returned status %d", resp.StatusCode))
	}
	return dErrors.New(dErrors.Code(envelope.Error), envelope.Description)
}
