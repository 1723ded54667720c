package attachments

import (
	"errors"
	"fmt"
)

var (
	ErrBatchInProgress = errors.New("an upload batch is already in progress")
	ErrUnknownType     = errors.New("unknown document type")
	ErrNotActive       = errors.New("screen is not active")
	ErrNoOwner         = errors.New("owner id is required")
)

// TransportError is a network or server failure on a backend call.
type TransportError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": transport failure"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// describe extracts a short user-facing message from a backend failure.
func describe(err error) string {
	var te *TransportError
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return err.Error()
}
