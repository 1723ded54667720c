package attachments

import (
	"context"
	"io"
)

// Backend is the REST collaborator the pipeline drives. Every method is a
// suspension point and is awaited before the pipeline continues.
type Backend interface {
	ListDocumentTypes(ctx context.Context) ([]DocumentType, error)
	ListDocuments(ctx context.Context, ownerID string) ([]Document, error)
	UploadDocument(ctx context.Context, ownerID string, typeID int64, fileName string, r io.Reader) (Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient user-visible message.
type Notification struct {
	Severity Severity
	Message  string
	FileName string
}

// Presenter renders ambient UI state: the blocking busy overlay and notifications.
type Presenter interface {
	SetBusy(busy bool)
	Notify(n Notification)
}

// Confirmer gates destructive actions behind a synchronous yes/no prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type nopPresenter struct{}

func (nopPresenter) SetBusy(bool)        {}
func (nopPresenter) Notify(Notification) {}
