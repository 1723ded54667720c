package documents_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/bootstrap"
	"record-attachments/internal/shared/config"
	"record-attachments/internal/shared/telemetry"
)

type documentBody struct {
	DocumentID   string `json:"documentId"`
	OwnerID      string `json:"ownerId"`
	TypeID       int64  `json:"typeId"`
	DocumentName string `json:"documentName"`
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newRouter(t *testing.T, mutate func(*config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}
	if mutate != nil {
		mutate(&cfg)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func uploadRequest(t *testing.T, ownerID, typeID, fileName string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if typeID != "" {
		if err := writer.WriteField("typeId", typeID); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(data); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/owners/"+ownerID+"/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestDocumentTypes(t *testing.T) {
	router := newRouter(t, nil)

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/document-types", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var types []struct {
		TypeID            int64  `json:"typeId"`
		TypeName          string `json:"typeName"`
		AllowedExtensions string `json:"allowedExtensions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&types); err != nil {
		t.Fatalf("decode types: %v", err)
	}
	if len(types) != 3 || types[0].TypeName != "Invoice" || types[0].AllowedExtensions != "pdf,jpg,png" {
		t.Fatalf("unexpected types %+v", types)
	}
}

func TestDocumentsUploadListDelete(t *testing.T) {
	router := newRouter(t, nil)

	resp := serve(router, uploadRequest(t, "rec-1", "1", "invoice.pdf", []byte("%PDF-1.4 hello")))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created documentBody
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" || created.OwnerID != "rec-1" || created.TypeID != 1 || created.DocumentName != "invoice.pdf" {
		t.Fatalf("unexpected created document %+v", created)
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/owners/rec-1/documents", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var listed []documentBody
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].DocumentID != created.DocumentID {
		t.Fatalf("unexpected list %+v", listed)
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/owners/rec-2/documents", nil))
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("other owner should see an empty list, got %s", resp.Body.String())
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID+"/content", nil))
	if resp.Code != http.StatusOK || resp.Body.String() != "%PDF-1.4 hello" {
		t.Fatalf("content: %d %q", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("content type = %q", got)
	}

	resp = serve(router, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.DocumentID, nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	resp = serve(router, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.DocumentID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", resp.Code)
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/owners/rec-1/documents", nil))
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("deleted document still listed: %s", resp.Body.String())
	}
}

func TestDocumentsUploadRejections(t *testing.T) {
	router := newRouter(t, func(cfg *config.Config) { cfg.MaxUploadBytes = 16 })

	tests := []struct {
		name     string
		typeID   string
		fileName string
		size     int
		reason   string
	}{
		{name: "no type", typeID: "", fileName: "a.pdf", size: 4, reason: "no_type_selected"},
		{name: "extension", typeID: "2", fileName: "photo.png", size: 4, reason: "extension_not_allowed"},
		{name: "server cap", typeID: "1", fileName: "big.pdf", size: 32, reason: "too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(router, uploadRequest(t, "rec-1", tt.typeID, tt.fileName, bytes.Repeat([]byte("x"), tt.size)))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if body.Error.Code != "validation_error" || body.Error.Details["reason"] != tt.reason {
				t.Fatalf("unexpected error %+v", body.Error)
			}
		})
	}

	resp := serve(router, uploadRequest(t, "rec-1", "99", "a.pdf", []byte("x")))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown type expected 400, got %d", resp.Code)
	}
	for _, raw := range []string{"abc", "-1"} {
		resp = serve(router, uploadRequest(t, "rec-1", raw, "a.pdf", []byte("x")))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("typeId %q expected 400, got %d", raw, resp.Code)
		}
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if body.Error.Details["field"] != "typeId" || body.Error.Details["reason"] != nil {
			t.Fatalf("malformed typeId should name the field without a rejection reason, got %+v", body.Error)
		}
		if body.Error.Message != "typeId must be a non-negative integer" {
			t.Fatalf("unexpected message %q", body.Error.Message)
		}
	}

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/owners/rec-1/documents", nil))
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("rejected uploads must not be stored: %s", resp.Body.String())
	}
}

func TestDocumentsRequireTokenWhenConfigured(t *testing.T) {
	router := newRouter(t, func(cfg *config.Config) { cfg.APIToken = "secret" })

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/document-types", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/document-types", nil)
	req.Header.Set("Authorization", "Bearer secret")
	if resp := serve(router, req); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.Code)
	}
}

func TestContentNotFound(t *testing.T) {
	router := newRouter(t, nil)
	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents/missing/content", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestMalformedDocumentIDReturns404(t *testing.T) {
	router := newRouter(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "delete", method: http.MethodDelete, path: "/api/v1/documents/foo"},
		{name: "content", method: http.MethodGet, path: "/api/v1/documents/foo/content"},
		{name: "delete unknown uuid", method: http.MethodDelete, path: "/api/v1/documents/6f1c1c1e-2a4b-4c1d-9e8f-0a1b2c3d4e5f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(router, httptest.NewRequest(tt.method, tt.path, nil))
			if resp.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", resp.Code)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if body.Error.Code != "not_found" {
				t.Fatalf("expected not_found, got %+v", body.Error)
			}
		})
	}
}
