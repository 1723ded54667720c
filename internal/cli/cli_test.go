package cli

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/bootstrap"
	"record-attachments/internal/shared/config"
	"record-attachments/internal/shared/telemetry"
)

func newAPI(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		APIToken:        "secret",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return srv.URL + "/api/v1"
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte("a"), size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, apiURL, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cfg := config.ClientConfig{APIURL: apiURL, Token: "secret", Timeout: 5 * time.Second, OwnerID: "rec-1"}
	root := NewRootCmd(cfg, strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTypesCommand(t *testing.T) {
	api := newAPI(t)
	out, err := run(t, api, "", "types")
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	for _, want := range []string{"Invoice *", "pdf,jpg,png", "Delivery Note", "Photo"} {
		if !strings.Contains(out, want) {
			t.Fatalf("types output missing %q:\n%s", want, out)
		}
	}
}

func TestUploadCommandReportsEachFile(t *testing.T) {
	api := newAPI(t)
	dir := t.TempDir()
	report := writeFile(t, dir, "report.pdf", 2<<20)
	virus := writeFile(t, dir, "virus.exe", 10)
	huge := writeFile(t, dir, "huge.pdf", 11<<20)

	out, err := run(t, api, "", "upload", "--type", "1", report, virus, huge, filepath.Join(dir, "missing.pdf"))
	if !errors.Is(err, ErrFilesFailed) {
		t.Fatalf("expected ErrFilesFailed, got %v", err)
	}
	for _, want := range []string{
		"[ok] report.pdf uploaded",
		"virus.exe: file type not allowed",
		"huge.pdf: file exceeds the 10 MB limit",
		"missing.pdf",
		"1 uploaded, 3 failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("upload output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, api, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Count(out, "report.pdf") != 1 || strings.Contains(out, "virus.exe") {
		t.Fatalf("unexpected list:\n%s", out)
	}
}

func TestUploadWithoutTypeSendsNothing(t *testing.T) {
	api := newAPI(t)
	path := writeFile(t, t.TempDir(), "a.pdf", 1)

	out, err := run(t, api, "", "upload", "--type", "0", path)
	if !errors.Is(err, ErrFilesFailed) {
		t.Fatalf("expected ErrFilesFailed, got %v", err)
	}
	if !strings.Contains(out, "Select a document type") || !strings.Contains(out, "No documents.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDeleteCommandHonoursConfirmation(t *testing.T) {
	api := newAPI(t)
	path := writeFile(t, t.TempDir(), "a.pdf", 1)
	if _, err := run(t, api, "", "upload", path); err != nil {
		t.Fatalf("upload: %v", err)
	}
	listOut, _ := run(t, api, "", "list")
	id := documentIDFrom(t, listOut, "a.pdf")

	out, err := run(t, api, "n\n", "delete", id)
	if err != nil {
		t.Fatalf("declined delete: %v", err)
	}
	if !strings.Contains(out, "Delete a.pdf? [y/N]: ") || !strings.Contains(out, "Cancelled.") {
		t.Fatalf("unexpected decline output:\n%s", out)
	}

	out, err = run(t, api, "", "delete", "--yes", id)
	if err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if !strings.Contains(out, "a.pdf deleted") || !strings.Contains(out, "No documents.") {
		t.Fatalf("unexpected delete output:\n%s", out)
	}
}

func TestDropCommandReplaysEvents(t *testing.T) {
	api := newAPI(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", 1)
	b := writeFile(t, dir, "b.png", 1)

	script := strings.Join([]string{
		"# operator drags two files",
		"enter",
		"over",
		"leave",
		"enter",
		"drop " + a + " " + b,
		"wiggle",
	}, "\n")
	out, err := run(t, api, script, "drop")
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if strings.Count(out, "drag: drag_active") != 2 || strings.Count(out, "drag: idle") != 2 {
		t.Fatalf("unexpected transitions:\n%s", out)
	}
	if !strings.Contains(out, "2 uploaded, 0 failed") {
		t.Fatalf("expected one batch of two:\n%s", out)
	}
}

func TestOwnerIsRequired(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd(config.ClientConfig{APIURL: "http://127.0.0.1:1"}, strings.NewReader(""), &out, &out)
	root.SetArgs([]string{"list"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "--owner") {
		t.Fatalf("expected owner error, got %v", err)
	}
}

func documentIDFrom(t *testing.T, listing, name string) string {
	t.Helper()
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 1 && fields[1] == name {
			return fields[0]
		}
	}
	t.Fatalf("%s not found in listing:\n%s", name, listing)
	return ""
}
