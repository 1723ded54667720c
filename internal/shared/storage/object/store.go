package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned when a storage key escapes the store's namespace.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore saves and retrieves attachment bytes.
type ObjectStore interface {
	// Save stores the object under the owner's namespace and reports the key,
	// the number of bytes written and the sniffed content type.
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Delete removes the object. Removing a missing object is not an error.
	Delete(ctx context.Context, storageKey string) error
	// Provider names the backend recorded alongside each document.
	Provider() string
}
