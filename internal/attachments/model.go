// Package attachments is the per-record document attachment pipeline: type
// registry, validation, drag-and-drop capture, sequential batch upload and
// list synchronization.
package attachments

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NoType is the sentinel selection meaning no document type is chosen.
const NoType int64 = 0

// MaxUploadBytes is the per-file size cap enforced before upload.
const MaxUploadBytes int64 = 10 * 1024 * 1024

// DocumentType is a selectable category with its allowed file extensions.
type DocumentType struct {
	ID                int64
	Name              string
	AllowedExtensions []string
}

// Allows reports whether ext is in the allowlist. Matching is case-insensitive
// and ignores surrounding whitespace.
func (t DocumentType) Allows(ext string) bool {
	ext = normalizeToken(ext)
	if ext == "" {
		return false
	}
	for _, allowed := range t.AllowedExtensions {
		if normalizeToken(allowed) == ext {
			return true
		}
	}
	return false
}

// Document is an attachment stored server-side for an owning record.
type Document struct {
	ID         string
	OwnerID    string
	TypeID     int64
	Name       string
	UploadedAt time.Time
}

// FileHandle abstracts a file offered by the picker or a drop.
type FileHandle interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// Candidate is a file waiting to be validated and uploaded. It is never persisted.
type Candidate struct {
	File      FileHandle
	Extension string
	SizeBytes int64
}

// NewCandidate builds a candidate from a file handle, inferring its extension.
func NewCandidate(f FileHandle) Candidate {
	return Candidate{
		File:      f,
		Extension: ExtensionOf(f.Name()),
		SizeBytes: f.Size(),
	}
}

// Name returns the file name of the candidate, or an empty string when it has no handle.
func (c Candidate) Name() string {
	if c.File == nil {
		return ""
	}
	return c.File.Name()
}

// ParseAllowlist splits a comma-separated allowlist into lowercase, trimmed,
// de-duplicated tokens in first-seen order.
func ParseAllowlist(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		token := normalizeToken(p)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// FormatAllowlist joins tokens back into the wire representation.
func FormatAllowlist(exts []string) string {
	return strings.Join(exts, ",")
}

// ExtensionOf returns the lowercased substring after the final dot of name,
// or an empty string when there is none.
func ExtensionOf(name string) string {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return normalizeToken(name[idx+1:])
}

func normalizeToken(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ".")
	return strings.ToLower(s)
}

// LocalFile is a FileHandle backed by a path on disk.
type LocalFile struct {
	path string
	size int64
}

// OpenLocalFile stats path and returns a handle for it.
func OpenLocalFile(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	return &LocalFile{path: path, size: info.Size()}, nil
}

func (f *LocalFile) Name() string { return filepath.Base(f.path) }
func (f *LocalFile) Size() int64  { return f.size }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
