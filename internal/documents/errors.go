package documents

import (
	"errors"

	"record-attachments/internal/attachments"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownType  = errors.New("unknown document type")
)

// RejectedError reports a file refused by the validation engine.
type RejectedError struct {
	Reason attachments.Reason
	Msg    string
}

func (e *RejectedError) Error() string { return e.Msg }

func (e *RejectedError) Unwrap() error { return ErrInvalidInput }
