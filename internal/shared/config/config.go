package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"record-attachments/internal/shared/telemetry"
)

// DefaultMaxUploadBytes mirrors the client-side cap of 10 MiB.
const DefaultMaxUploadBytes int64 = 10 * 1024 * 1024

// Config holds the document backend configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	S3Endpoint         string
	S3AccessKeyID      string
	S3SecretAccessKey  string
	SSEKMSKeyID        string
	DatabaseURL        string
	Env                string
	APIToken           string
	MaxUploadBytes     int64
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// ClientConfig holds defaults for the attach CLI; flags override every field.
type ClientConfig struct {
	APIURL  string
	Token   string
	Timeout time.Duration
	OwnerID string
}

// LoadEnvFiles loads .env files best-effort; variables already set win.
func LoadEnvFiles(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "cmd/.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			telemetry.Error("config.dotenv_failed", map[string]any{"path": p, "error": err.Error()})
		}
	}
}

// Load reads backend configuration from environment variables with sensible defaults.
func Load() Config {
	LoadEnvFiles()

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Error("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:        dbURL,
		Env:                env,
		APIToken:           strings.TrimSpace(os.Getenv("API_TOKEN")),
		MaxUploadBytes:     getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     int(getEnvInt64("RATE_LIMIT_BURST", 20)),
	}
}

// LoadClient reads the attach CLI defaults.
func LoadClient() ClientConfig {
	LoadEnvFiles()

	return ClientConfig{
		APIURL:  getEnv("ATTACH_API_URL", "http://localhost:8080/api/v1"),
		Token:   strings.TrimSpace(os.Getenv("ATTACH_API_TOKEN")),
		Timeout: getEnvDuration("ATTACH_HTTP_TIMEOUT", 60*time.Second),
		OwnerID: strings.TrimSpace(os.Getenv("ATTACH_OWNER_ID")),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		telemetry.Error("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		telemetry.Error("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		telemetry.Error("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
