package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Auth("secret"), Logging())
	router.POST("/owners/:ownerId/documents", func(c *gin.Context) {
		c.Set("documentId", "doc-1")
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	var buf bytes.Buffer
	prev := telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(prev)

	req := httptest.NewRequest(http.MethodPost, "/owners/rec-9/documents", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatalf("expected log output")
	}
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"ts", "level", "msg", "request_id", "owner_id", "document_id", "duration_ms", "status", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" || payload["level"] != "info" {
		t.Fatalf("unexpected envelope: %v", payload)
	}
	if payload["request_id"] != "req-123" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["owner_id"] != "rec-9" {
		t.Fatalf("unexpected owner_id: %v", payload["owner_id"])
	}
	if payload["document_id"] != "doc-1" {
		t.Fatalf("unexpected document_id: %v", payload["document_id"])
	}
	if payload["principal"] != "token" {
		t.Fatalf("unexpected principal: %v", payload["principal"])
	}
	if payload["status"] != float64(http.StatusCreated) {
		t.Fatalf("unexpected status: %v", payload["status"])
	}
}
