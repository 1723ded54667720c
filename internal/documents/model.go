package documents

import (
	"time"

	"record-attachments/internal/attachments"
)

// DocumentType is a server-defined category with its comma-separated extension allowlist.
type DocumentType struct {
	ID                int64
	Name              string
	AllowedExtensions string
}

// Rules converts the type into the form the validation engine consumes.
func (t DocumentType) Rules() attachments.DocumentType {
	return attachments.DocumentType{
		ID:                t.ID,
		Name:              t.Name,
		AllowedExtensions: attachments.ParseAllowlist(t.AllowedExtensions),
	}
}

// Document is a stored attachment belonging to an owning record.
type Document struct {
	ID              string
	OwnerID         string
	TypeID          int64
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	UploadedAt      time.Time
	DeletedAt       *time.Time
}

// DefaultTypes seeds the in-memory repository and mirrors the initial migration.
func DefaultTypes() []DocumentType {
	return []DocumentType{
		{ID: 1, Name: "Invoice", AllowedExtensions: "pdf,jpg,png"},
		{ID: 2, Name: "Delivery Note", AllowedExtensions: "pdf"},
		{ID: 3, Name: "Photo", AllowedExtensions: "jpg,jpeg,png"},
	}
}
