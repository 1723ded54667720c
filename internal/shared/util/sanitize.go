package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameBytes caps stored document names.
const MaxFileNameBytes = 255

// ErrInvalidFileName is returned for names that cannot be stored.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes an uploaded document name safe to embed in a storage
// key. Separators become underscores, control characters are dropped and long
// names are cut down while keeping the extension, which validation depends on.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case unicode.IsControl(r) || r == utf8.RuneError:
			continue
		default:
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	if len(s) <= MaxFileNameBytes {
		return s, nil
	}

	ext := path.Ext(s)
	if len(ext) >= MaxFileNameBytes/2 {
		ext = ""
	}
	return truncateUTF8(strings.TrimSuffix(s, ext), MaxFileNameBytes-len(ext)) + ext, nil
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
