package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "OBJECT_STORE", "MAX_UPLOAD_BYTES", "API_TOKEN", "DATABASE_URL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.Env != "dev" || cfg.ObjectStoreType != "local" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.APIToken != "" {
		t.Fatalf("expected no token by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "PROD")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("API_TOKEN", "  secret ")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a, ,http://b")
	t.Setenv("DATABASE_URL", "postgres://x")

	cfg := Load()
	if cfg.Env != "production" || cfg.ObjectStoreType != "s3" {
		t.Fatalf("unexpected normalization %+v", cfg)
	}
	if cfg.MaxUploadBytes != 2048 || cfg.APIToken != "secret" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "http://b" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowOrigin)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "lots")
	t.Setenv("ATTACH_HTTP_TIMEOUT", "soon")
	if got := Load().MaxUploadBytes; got != DefaultMaxUploadBytes {
		t.Fatalf("MaxUploadBytes = %d", got)
	}
	if got := LoadClient().Timeout; got != 60*time.Second {
		t.Fatalf("Timeout = %s", got)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ATTACH_OWNER_ID=from-file\nATTACH_API_URL=\"http://file\"\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("ATTACH_API_URL", "http://env")
	t.Setenv("ATTACH_OWNER_ID", "")
	os.Unsetenv("ATTACH_OWNER_ID")

	LoadEnvFiles(path)
	t.Cleanup(func() { os.Unsetenv("ATTACH_OWNER_ID") })

	if got := os.Getenv("ATTACH_OWNER_ID"); got != "from-file" {
		t.Fatalf("ATTACH_OWNER_ID = %q", got)
	}
	if got := os.Getenv("ATTACH_API_URL"); got != "http://env" {
		t.Fatalf("ATTACH_API_URL = %q, existing env must win", got)
	}
}
