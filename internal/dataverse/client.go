// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dataverse

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

	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
)

const (
	// APIKeyHeader carries the API token of the calling user.
	APIKeyHeader = "X-Dataverse-key"
	// MetadataKeyHeaderPrefix prefixes the headers carrying metadata block keys.
	MetadataKeyHeaderPrefix = "X-Dataverse-mdkey-"
	// DefaultTimeout is the HTTP timeout used when none is configured.
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrNoBaseURL is returned when the client is created without a server address.
	ErrNoBaseURL = errors.New("dataverse base URL is not configured")
	// ErrInvalidBaseURL is returned when the server address cannot be parsed.
	ErrInvalidBaseURL = errors.New("invalid dataverse base URL")
	// ErrRequest is returned when a request cannot be built or sent.
	ErrRequest = errors.New("dataverse request failed")
)

// Config holds the connection settings of a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	UnblockKey string
	Timeout    time.Duration
}

// Client talks to one Dataverse installation.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	unblockKey string
	http       *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client from cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}

	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    u,
		apiKey:     cfg.APIKey,
		unblockKey: cfg.UnblockKey,
		http:       &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Response is a successful reply from the server.
type Response struct {
	StatusCode int
	Body       []byte
}

// Envelope returns the response body as sent by the server.
func (r *Response) Envelope() string {
	return string(bytes.TrimSpace(r.Body))
}

// String implements the Stringer interface so reporters print the envelope.
func (r *Response) String() string {
	return r.Envelope()
}

// Data decodes the "data" member of the envelope into v.
func (r *Response) Data(v any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(r.Body, &env); err != nil {
		return fmt.Errorf("decoding response envelope: %w", err)
	}

	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}

	return nil
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    []byte
	headers map[string]string
}

func (c *Client) do(ctx context.Context, req request) (*Response, error) {
	u := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader = http.NoBody
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}

	if c.apiKey != "" {
		httpReq.Header.Set(APIKeyHeader, c.apiKey)
	}

	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	ctxlog.Debug(ctx, "dataverse request", "method", req.method, "url", u.Redacted())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, data)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// Collection returns the API of the collection with the given alias or database id.
func (c *Client) Collection(alias string) *CollectionAPI {
	return &CollectionAPI{client: c, alias: alias}
}

// Dataset returns the API of the dataset with the given identifier.
// A decimal identifier is a database id, anything else is a persistent identifier.
func (c *Client) Dataset(id string) *DatasetAPI {
	return newDatasetAPI(c, id)
}

// Admin returns the admin API. Admin calls carry the unblock key if one is configured.
func (c *Client) Admin() *AdminAPI {
	return &AdminAPI{client: c}
}
