package emulator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidecraft/ballast/internal/client"
	"github.com/tidecraft/ballast/internal/config"
	"github.com/tidecraft/ballast/internal/properties"
)

func TestRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.RequestsPerSecond = 1
	cfg.Limits.Burst = 1

	srv := newTestServer(t, cfg)
	c := newTestClient(t, srv.URL, properties.ServiceBlob)
	ctx := context.Background()

	_, err := c.GetProperties(ctx)
	require.NoError(t, err)

	_, err = c.GetProperties(ctx)
	require.Error(t, err)
	assert.True(t, client.HasCode(err, ErrServerBusy))

	var serr *client.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusServiceUnavailable, serr.StatusCode)
}

func TestRateLimit_PerAccount(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.RequestsPerSecond = 1
	cfg.Limits.Burst = 1

	srv := newTestServer(t, cfg)
	ctx := context.Background()

	c1, err := client.New(srv.URL, "account-one", properties.ServiceBlob)
	require.NoError(t, err)
	c2, err := client.New(srv.URL, "account-two", properties.ServiceBlob)
	require.NoError(t, err)

	_, err = c1.GetProperties(ctx)
	require.NoError(t, err)

	// A different account has its own bucket.
	_, err = c2.GetProperties(ctx)
	require.NoError(t, err)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/blob/testaccount?restype=service&comp=properties")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.NotEmpty(t, resp.Header.Get("x-ms-request-id"))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	// Generate one counted request first.
	resp, err := http.Get(srv.URL + "/blob/testaccount?restype=service&comp=properties")
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ballast_requests_total")
}

func TestWriteError_Shape(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrTooManyCorsRules, "req-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("x-ms-request-id"))
	assert.Contains(t, w.Body.String(), "<Code>TooManyCorsRules</Code>")
	assert.True(t, strings.HasPrefix(w.Body.String(), "<?xml"))

	w = httptest.NewRecorder()
	WriteError(w, "NoSuchCode", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "<Code>InternalError</Code>")
}

func TestInvalidQueryParameters(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/blob/testaccount?restype=service")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/table/testaccount?restype=service&comp=properties")
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestApplyConfig_RotatesKeys(t *testing.T) {
	cfg := authedConfig()
	s, err := NewServer(cfg, zap.NewNop(), NewMemoryStore())
	require.NoError(t, err)

	next := config.Default()
	next.Auth.Enabled = false
	s.ApplyConfig(next)

	assert.False(t, s.authRequired())
	assert.Nil(t, s.credentialFor("testaccount"))
}

func TestHealthBody(t *testing.T) {
	s, err := NewServer(config.Default(), zap.NewNop(), NewMemoryStore())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}
