package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"mvg/internal/config"
	"mvg/internal/guide"
)

func TestMain(m *testing.M) {
	// go.opencensus.io starts a background worker in package init that
	// cannot be stopped from test code.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func newTestServer() *Server {
	return New(guide.New(), config.DefaultConfig(), zap.NewNop())
}

func postRespond(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/respond", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestServer().Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2.0", body["version"])
}

func TestRespond(t *testing.T) {
	h := newTestServer().Router()
	rec := postRespond(t, h, `{"user_id":"web","query":"How does recursion work?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var result guide.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "web", result.Metadata.UserID)
	assert.Equal(t, 1, result.Metadata.InteractionNumber)
	assert.NotEmpty(t, result.Response)
	assert.Contains(t, result.ReasoningLog, "[STEP 1: INTENT ANALYSIS]")
}

func TestRespondDefaultsUserID(t *testing.T) {
	h := newTestServer().Router()
	rec := postRespond(t, h, `{"query":"How does recursion work?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result guide.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "default", result.Metadata.UserID)
}

func TestRespondEmptyQuery(t *testing.T) {
	h := newTestServer().Router()
	rec := postRespond(t, h, `{"user_id":"web","query":"  "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "empty")
}

func TestRespondMalformedBody(t *testing.T) {
	h := newTestServer().Router()

	for _, body := range []string{"", "{", `{"query": 5}`, `{"query":"x","bogus":true}`} {
		rec := postRespond(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestRespondBodyTooLarge(t *testing.T) {
	h := newTestServer().Router()
	big := bytes.Repeat([]byte("a"), maxRequestBodySize+1)
	body := `{"query":"` + string(big) + `"}`

	rec := postRespond(t, h, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	h := newTestServer().Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "client-chosen")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "client-chosen", rec.Header().Get("X-Request-Id"))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	s := New(guide.New(), cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
