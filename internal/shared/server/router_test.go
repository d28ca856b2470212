package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
)

func TestAddr(t *testing.T) {
	assert.Equal(t, ":3001", Addr(""))
	assert.Equal(t, ":8080", Addr("8080"))
	assert.Equal(t, ":9000", Addr(":9000"))
}

func TestHealthAndMetrics(t *testing.T) {
	r := NewRouter(RouterDeps{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true}`, resp.Body.String())

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "http_requests_total")
}

func TestHealthUnavailableWhenDependencyFails(t *testing.T) {
	svc := health.NewService()
	svc.Register("database", health.PingFunc(func(context.Context) error { return errors.New("down") }))
	r := NewRouter(RouterDeps{Health: svc})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	r := NewRouter(RouterDeps{})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), `"code":"not_found"`))
}

func TestAuthRules(t *testing.T) {
	assert.Nil(t, authRules(config.Config{AuthRateLimitPerMin: 0}))

	rules := authRules(config.Config{AuthRateLimitPerMin: 30, AuthRateLimitBurst: 0})
	rule, ok := rules[authRateLimitGroup]
	require.True(t, ok)
	assert.InDelta(t, 0.5, rule.Rate, 1e-9)
	assert.Equal(t, 1, rule.Burst)
}
