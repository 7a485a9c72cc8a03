package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(&Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		Headers: map[string]string{"X-Static": "always"},
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"missing_base_url", &Config{Timeout: time.Second}},
		{"bad_base_url", &Config{BaseURL: "not-a-url", Timeout: time.Second}},
		{"zero_timeout", &Config{BaseURL: "http://localhost:1234"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config, zerolog.Nop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestClient_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ping", r.URL.Path)
		assert.Equal(t, "always", r.Header.Get("X-Static"))
		assert.Equal(t, "v", r.URL.Query().Get("k"))
		w.Write([]byte(`{}`))
	})

	resp, err := c.Get(context.Background(), "/ping", WithQueryParam("k", "v"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestClient_Post(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "token", r.Header.Get("X-Auth"))
		w.Write([]byte(`{"ok":true}`))
	})

	resp, err := c.Post(context.Background(), "/submit", nil, WithHeader("X-Auth", "token"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestClient_Delete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "b", r.URL.Query().Get("a"))
		w.Write([]byte(`{}`))
	})

	resp, err := c.Delete(context.Background(), "/resource",
		WithQueryParams(map[string]string{"a": "b"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestClient_ClosedRejectsRequests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, c.Close())
	// Close is idempotent.
	require.NoError(t, c.Close())

	_, err := c.Get(context.Background(), "/ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestClient_ContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, "/slow")
	require.Error(t, err)
}
