package local

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"record-attachments/internal/shared/storage/object"
)

func TestSaveAndOpen(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	key, size, mimeType, err := s.Save(ctx, "record-7", "scan.pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("%PDF-1.4 body")) {
		t.Fatalf("size = %d", size)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("mimeType = %q", mimeType)
	}
	if !strings.HasSuffix(key, "_scan.pdf") || strings.Contains(key, "record-7") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := s.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("read back %q", data)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Open(context.Background(), "../outside"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestDeleteRemovesObject(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	key, _, _, err := s.Save(ctx, "record-7", "scan.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Open(ctx, key); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected deleted object to be gone, got %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("deleting a missing object should succeed, got %v", err)
	}
	if err := s.Delete(ctx, "../outside"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestSaveRejectsBadName(t *testing.T) {
	s := New(t.TempDir())
	if _, _, _, err := s.Save(context.Background(), "o", "../x.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected sanitize error")
	}
}
