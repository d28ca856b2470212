package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("AUTH_ALLOW_USER_ID_HEADER", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.Port != "3001" {
		t.Fatalf("expected port 3001, got %q", cfg.Port)
	}
	if cfg.JWTSecret != "dev-secret" {
		t.Fatalf("expected dev secret fallback, got %q", cfg.JWTSecret)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %s", cfg.JWTTTL)
	}
	if !cfg.AllowUserIDHeader {
		t.Fatalf("expected legacy header enabled in dev")
	}
}

func TestLoadProductionDisablesLegacyHeader(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("AUTH_ALLOW_USER_ID_HEADER", "")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.AllowUserIDHeader {
		t.Fatalf("expected legacy header disabled in production")
	}
	if cfg.JWTSecret != "s3cr3t" {
		t.Fatalf("unexpected secret %q", cfg.JWTSecret)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("AUTH_RATE_LIMIT", "many")
	t.Setenv("AUTH_ALLOW_USER_ID_HEADER", "maybe")
	t.Setenv("ENV", "dev")

	cfg := Load()
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("expected default ttl, got %s", cfg.JWTTTL)
	}
	if cfg.AuthRateLimitPerMin != 10 {
		t.Fatalf("expected default rate limit, got %d", cfg.AuthRateLimitPerMin)
	}
	if !cfg.AllowUserIDHeader {
		t.Fatalf("expected default legacy header flag")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\n# comment\nCORS_ALLOW_ORIGINS=\"http://a.test, http://b.test\"\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")
	os.Unsetenv("PORT")
	os.Unsetenv("CORS_ALLOW_ORIGINS")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Fatalf("expected port from .env, got %q", cfg.Port)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowOrigin)
	}
}

func TestIsDevLike(t *testing.T) {
	cases := map[string]bool{"dev": true, "local": true, " LOCAL ": true, "staging": false, "production": false}
	for env, want := range cases {
		if got := IsDevLike(env); got != want {
			t.Fatalf("IsDevLike(%q)=%v, want %v", env, got, want)
		}
	}
}

func TestLoadTrustedProxies(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRUSTED_PROXIES", "")
	if cfg := Load(); len(cfg.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}

	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.168.1.5 ")
	cfg := Load()
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0] != "10.0.0.0/8" || cfg.TrustedProxies[1] != "192.168.1.5" {
		t.Fatalf("unexpected trusted proxies %v", cfg.TrustedProxies)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
