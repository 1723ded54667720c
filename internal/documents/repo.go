package documents

import (
	"context"
	"time"
)

// DocumentsRepo defines persistence operations for document types and documents.
type DocumentsRepo interface {
	ListTypes(ctx context.Context) ([]DocumentType, error)
	GetType(ctx context.Context, typeID int64) (DocumentType, error)
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Document, error)
	SoftDelete(ctx context.Context, documentID string, at time.Time) error
}
