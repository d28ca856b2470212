package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{
		Port:              "0",
		CORSAllowOrigin:   []string{"http://localhost:3000"},
		Env:               "dev",
		JWTSecret:         testSecret,
		JWTTTL:            time.Hour,
		AllowUserIDHeader: true,
	}
}

func buildApp(t *testing.T, cfg config.Config) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func send(t *testing.T, app *bootstrap.App, method, path string, headers map[string]string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

type session struct {
	UserID int64
	Token  string
}

func registerAndLogin(t *testing.T, app *bootstrap.App, email string) session {
	t.Helper()
	resp := send(t, app, http.MethodPost, "/api/register", nil,
		fmt.Sprintf(`{"full_name":"Test User","email":%q,"password":"pw-123"}`, email))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = send(t, app, http.MethodPost, "/api/login", nil,
		fmt.Sprintf(`{"email":%q,"password":"pw-123"}`, email))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		UserID int64  `json:"userId"`
		Token  string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return session{UserID: out.UserID, Token: out.Token}
}

func bearer(s session) map[string]string {
	return map[string]string{"Authorization": "Bearer " + s.Token}
}

func TestBuildUsesMemoryStoreWithoutDatabase(t *testing.T) {
	app := buildApp(t, testConfig())
	assert.Nil(t, app.DB)
	assert.Nil(t, app.Redis)
	assert.NotNil(t, app.Router)
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	_, err := bootstrap.Build(cfg)
	assert.Error(t, err)
}

func TestBuildRequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := bootstrap.Build(cfg)
	assert.Error(t, err)
}

func TestResumeLifecycleWithToken(t *testing.T) {
	app := buildApp(t, testConfig())
	s := registerAndLogin(t, app, "ada@example.com")

	content := `{"basics":{"name":"Ada"},"work":[{"company":"Analytical Engines","highlights":["loops","notes"]}],"draft":false}`
	resp := send(t, app, http.MethodPost, "/api/resume/save", bearer(s),
		fmt.Sprintf(`{"title":"My CV","content":%s}`, content))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var saved struct {
		Message  string `json:"message"`
		ResumeID int64  `json:"resumeId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &saved))
	assert.Equal(t, "Resume saved successfully", saved.Message)

	resp = send(t, app, http.MethodGet, "/api/resumes", bearer(s), "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list []struct {
		ResumeID  int64     `json:"resume_id"`
		Title     string    `json:"title"`
		CreatedAt time.Time `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, saved.ResumeID, list[0].ResumeID)
	assert.Equal(t, "My CV", list[0].Title)
	assert.False(t, list[0].CreatedAt.IsZero())

	resp = send(t, app, http.MethodGet, fmt.Sprintf("/api/resume/%d", saved.ResumeID), bearer(s), "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, content, resp.Body.String())
}

func TestLegacyUserIDHeader(t *testing.T) {
	app := buildApp(t, testConfig())
	s := registerAndLogin(t, app, "legacy@example.com")
	header := map[string]string{"userId": fmt.Sprint(s.UserID)}

	resp := send(t, app, http.MethodPost, "/api/resume/save", header, `{"title":"Legacy","content":{"a":1}}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = send(t, app, http.MethodGet, "/api/resumes", map[string]string{"userId": "999999"}, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "User not found")

	cfg := testConfig()
	cfg.AllowUserIDHeader = false
	strict := buildApp(t, cfg)
	resp = send(t, strict, http.MethodGet, "/api/resumes", header, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	app := buildApp(t, testConfig())
	body := `{"full_name":"A","email":"dup@example.com","password":"pw"}`

	resp := send(t, app, http.MethodPost, "/api/register", nil, body)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = send(t, app, http.MethodPost, "/api/register", nil, body)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLoginFailureShapesMatch(t *testing.T) {
	app := buildApp(t, testConfig())
	registerAndLogin(t, app, "known@example.com")

	wrong := send(t, app, http.MethodPost, "/api/login", nil, `{"email":"known@example.com","password":"nope"}`)
	unknown := send(t, app, http.MethodPost, "/api/login", nil, `{"email":"ghost@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
}

func TestGateRejectsMissingAndBadIdentity(t *testing.T) {
	app := buildApp(t, testConfig())
	s := registerAndLogin(t, app, "gate@example.com")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "resume-builder",
			Subject:   fmt.Sprint(s.UserID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]map[string]string{
		"none":     nil,
		"tampered": {"Authorization": "Bearer " + s.Token + "x"},
		"expired":  {"Authorization": "Bearer " + expiredToken},
		"scheme":   {"Authorization": "Basic " + s.Token},
		"garbage":  {"userId": "abc"},
	}
	for name, headers := range cases {
		for _, path := range []string{"/api/resumes", "/api/resume/1"} {
			resp := send(t, app, http.MethodGet, path, headers, "")
			assert.Equal(t, http.StatusUnauthorized, resp.Code, "%s %s", name, path)
		}
		resp := send(t, app, http.MethodPost, "/api/resume/save", headers, `{"title":"x","content":{}}`)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, name)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	app := buildApp(t, testConfig())
	a := registerAndLogin(t, app, "a@example.com")
	b := registerAndLogin(t, app, "b@example.com")

	resp := send(t, app, http.MethodPost, "/api/resume/save", bearer(a), `{"title":"A only","content":{"secret":true}}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	var saved struct {
		ResumeID int64 `json:"resumeId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &saved))

	resp = send(t, app, http.MethodGet, "/api/resumes", bearer(b), "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "[]", resp.Body.String())

	foreign := send(t, app, http.MethodGet, fmt.Sprintf("/api/resume/%d", saved.ResumeID), bearer(b), "")
	missing := send(t, app, http.MethodGet, fmt.Sprintf("/api/resume/%d", saved.ResumeID+1000), bearer(b), "")
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, foreign.Body.String(), missing.Body.String())
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimitPerMin = 1
	cfg.AuthRateLimitBurst = 2
	app := buildApp(t, cfg)

	body := `{"email":"nobody@example.com","password":"pw"}`
	for i := 0; i < 2; i++ {
		resp := send(t, app, http.MethodPost, "/api/login", nil, body)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}
	resp := send(t, app, http.MethodPost, "/api/login", nil, body)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))
}

func TestPreflight(t *testing.T) {
	app := buildApp(t, testConfig())
	resp := send(t, app, http.MethodOptions, "/api/resume/save", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	}, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthRateLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimitPerMin = 1
	cfg.AuthRateLimitBurst = 2
	app := buildApp(t, cfg)

	body := `{"email":"nobody@example.com","password":"pw"}`
	limited := 0
	for i := 0; i < 20; i++ {
		resp := send(t, app, http.MethodPost, "/api/login", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i),
		}, body)
		if resp.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 18, limited)
}

func TestAuthRateLimitHonorsTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimitPerMin = 1
	cfg.AuthRateLimitBurst = 1
	// httptest requests arrive from 192.0.2.1.
	cfg.TrustedProxies = []string{"192.0.2.1"}
	app := buildApp(t, cfg)

	body := `{"email":"nobody@example.com","password":"pw"}`
	for i := 0; i < 3; i++ {
		resp := send(t, app, http.MethodPost, "/api/login", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i),
		}, body)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, "client %d", i)
	}
	resp := send(t, app, http.MethodPost, "/api/login", map[string]string{"X-Forwarded-For": "10.0.0.0"}, body)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestBuildChecksSecretBeforeOpeningConnections(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	cfg.JWTSecret = ""
	cfg.DatabaseURL = "postgres://user:pw@127.0.0.1:1/resumes?connect_timeout=1"
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	_, err := bootstrap.Build(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure tokens")
}
