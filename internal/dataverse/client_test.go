// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dataverse

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded is one request as seen by the test server.
type recorded struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   string
}

// newTestServer starts a server that records requests and answers with status and body.
func newTestServer(t *testing.T, status int, body string) (*Client, *[]recorded) {
	t.Helper()

	var reqs []recorded

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)

		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}

		reqs = append(reqs, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  q,
			Header: r.Header.Clone(),
			Body:   string(b),
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "token-123", UnblockKey: "unblock"})
	require.NoError(t, err)

	return c, &reqs
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "missing base url", cfg: Config{}, wantErr: ErrNoBaseURL},
		{name: "relative base url", cfg: Config{BaseURL: "dataverse.example"}, wantErr: ErrInvalidBaseURL},
		{name: "valid", cfg: Config{BaseURL: "https://demo.dataverse.example/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://demo.dataverse.example", c.baseURL.String())
			assert.Equal(t, DefaultTimeout, c.http.Timeout)
		})
	}
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	c, err := NewClient(Config{BaseURL: "http://localhost"}, WithHTTPClient(hc))
	require.NoError(t, err)
	assert.Same(t, hc, c.http)
}

func TestClient_SendsAPIKey(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusOK, `{"status":"OK","data":{}}`)

	resp, err := c.Collection("root").View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"status":"OK","data":{}}`, resp.Envelope())
	assert.Equal(t, resp.Envelope(), resp.String())

	require.Len(t, *reqs, 1)
	assert.Equal(t, "token-123", (*reqs)[0].Header.Get(APIKeyHeader))
}

func TestClient_ErrorResponse(t *testing.T) {
	c, _ := newTestServer(t, http.StatusNotFound, `{"status":"ERROR","message":"Can't find dataverse with identifier='nope'"}`)

	_, err := c.Collection("nope").View(context.Background())
	require.Error(t, err)

	var dvErr *Error
	require.ErrorAs(t, err, &dvErr)
	assert.Equal(t, http.StatusNotFound, dvErr.StatusCode)
	assert.Equal(t, "Can't find dataverse with identifier='nope'", dvErr.Message)
	assert.Equal(t, "Dataverse responded with HTTP status 404: Can't find dataverse with identifier='nope'", err.Error())
	assert.Equal(t, "DataverseException", runbatch.CategoryOf(err))
}

func TestClient_ErrorResponseWithoutEnvelope(t *testing.T) {
	c, _ := newTestServer(t, http.StatusBadGateway, "upstream down\n")

	_, err := c.Collection("root").View(context.Background())
	assert.EqualError(t, err, "Dataverse responded with HTTP status 502: upstream down")
}

func TestClient_TransportError(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = c.Collection("root").View(context.Background())
	assert.ErrorIs(t, err, ErrRequest)
}

func TestClient_CancelledContext(t *testing.T) {
	c, _ := newTestServer(t, http.StatusOK, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collection("root").View(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "Cancelled", runbatch.CategoryOf(err))
}

func TestResponse_Data(t *testing.T) {
	resp := &Response{Body: []byte(`{"status":"OK","data":[{"id":7,"assignee":"@user","_roleAlias":"curator"}]}`)}

	var out []RoleAssignmentReadOnly
	require.NoError(t, resp.Data(&out))
	require.Len(t, out, 1)
	assert.Equal(t, int64(7), out[0].ID)
	assert.Equal(t, "curator", out[0].RoleAlias)

	assert.Error(t, (&Response{Body: []byte("not json")}).Data(&out))
}
