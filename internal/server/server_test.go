package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/translay/translay/internal/core"
	"github.com/translay/translay/internal/server/handlers"
	servermw "github.com/translay/translay/internal/server/middleware"
)

type stubTranslator struct {
	result  *core.TranslateResult
	lastReq core.TranslateRequest
	lastCtx core.CallContext
}

func (s *stubTranslator) Translate(_ context.Context, req core.TranslateRequest, call core.CallContext) *core.TranslateResult {
	s.lastReq = req
	s.lastCtx = call
	return s.result
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error {
	return p.err
}

func okResult(text string) *core.TranslateResult {
	return &core.TranslateResult{
		HTTPStatus:     http.StatusOK,
		TranslatedText: &text,
		RequestID:      42,
		SourceLang:     "EN",
		TargetLang:     "DE",
	}
}

func newTestServer(t *testing.T, translator handlers.Translator, health *handlers.HealthManager) *httptest.Server {
	t.Helper()
	srv := New("127.0.0.1", 0, translator, health)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestTranslateEndpoint(t *testing.T) {
	stub := &stubTranslator{result: okResult("Hallo")}
	ts := newTestServer(t, stub, nil)

	resp, err := http.Post(ts.URL+"/translate", "application/json",
		strings.NewReader(`{"text":"Hi","source_lang":"auto","target_lang":"de"}`))
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(servermw.RequestIDHeader))

	var payload handlers.TranslateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "Hallo", payload.TranslatedText)
	require.Equal(t, "DE", payload.TargetLang)
	require.Equal(t, int64(42), payload.RequestID)

	require.Equal(t, "Hi", stub.lastReq.Text)
	require.Equal(t, "de", stub.lastReq.TargetLang)
	require.NotEmpty(t, stub.lastCtx.ClientIdentity)
}

func TestTranslateEndpointRejectsMalformedBody(t *testing.T) {
	stub := &stubTranslator{result: okResult("x")}
	ts := newTestServer(t, stub, nil)

	resp, err := http.Post(ts.URL+"/translate", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope servermw.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "INVALID_REQUEST", envelope.Error.Code)
	require.NotEmpty(t, envelope.Error.RequestID)
}

func TestTranslateEndpointMapsPipelineFailures(t *testing.T) {
	stub := &stubTranslator{result: &core.TranslateResult{
		HTTPStatus: http.StatusTooManyRequests,
		Message:    "rate limited: client limit",
	}}
	ts := newTestServer(t, stub, nil)

	resp, err := http.Post(ts.URL+"/translate", "application/json",
		strings.NewReader(`{"text":"Hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var envelope servermw.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "RATE_LIMITED", envelope.Error.Code)
	require.Contains(t, envelope.Error.Message, "client limit")
}

func TestHealthEndpoint(t *testing.T) {
	health := handlers.NewHealthManager("test")
	health.RegisterChecker("store", &stubPinger{})

	ts := newTestServer(t, &stubTranslator{result: okResult("x")}, health)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload handlers.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "healthy", payload.Status)
	require.Equal(t, "healthy", payload.Checks["store"])
}

func TestHealthEndpointUnhealthyDependency(t *testing.T) {
	health := handlers.NewHealthManager("test")
	health.RegisterChecker("store", &stubPinger{err: errors.New("connection refused")})

	ts := newTestServer(t, &stubTranslator{result: okResult("x")}, health)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestVersionEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubTranslator{result: okResult("x")}, nil)

	resp, err := http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload handlers.VersionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "translay", payload.App.Name)
	require.NotEmpty(t, payload.Runtime.Platform)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubTranslator{result: okResult("x")}, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotFoundEnvelope(t *testing.T) {
	ts := newTestServer(t, &stubTranslator{result: okResult("x")}, nil)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope servermw.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	ts := newTestServer(t, &stubTranslator{result: okResult("x")}, nil)

	resp, err := http.Get(ts.URL + "/translate")
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
