package util

import (
	"bytes"
	"fmt"
	"io"
)

const sniffLen = 512

// Sniff reads up to 512 bytes for content detection and returns them along
// with a reader that replays them before the rest of r.
func Sniff(r io.Reader) ([]byte, io.Reader, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, nil, fmt.Errorf("read sniff: %w", err)
	}
	head := buf[:n]
	return head, io.MultiReader(bytes.NewReader(head), r), nil
}
