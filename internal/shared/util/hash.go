package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// HashOwnerKey returns a filesystem-safe identifier for an owning record id.
func HashOwnerKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// RandomID returns 32 lowercase hex characters used to prefix stored objects.
func RandomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
