package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu    sync.RWMutex
	types []DocumentType
	docs  map[string]Document // documentId -> document
	owner map[string][]string // ownerId -> documentIds in insertion order
}

// NewMemoryRepo constructs a MemoryRepo seeded with types.
func NewMemoryRepo(types []DocumentType) *MemoryRepo {
	return &MemoryRepo{
		types: append([]DocumentType(nil), types...),
		docs:  make(map[string]Document),
		owner: make(map[string][]string),
	}
}

// ListTypes returns all document types ordered by id.
func (r *MemoryRepo) ListTypes(ctx context.Context) ([]DocumentType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]DocumentType(nil), r.types...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetType returns a document type by id.
func (r *MemoryRepo) GetType(ctx context.Context, typeID int64) (DocumentType, error) {
	if err := ctx.Err(); err != nil {
		return DocumentType{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.types {
		if t.ID == typeID {
			return t, nil
		}
	}
	return DocumentType{}, ErrNotFound
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	r.owner[doc.OwnerID] = append(r.owner[doc.OwnerID], doc.ID)
	return nil
}

// GetByID returns a non-deleted document by id.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.DeletedAt != nil {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByOwner returns the owner's non-deleted documents, oldest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, 0, len(r.owner[ownerID]))
	for _, id := range r.owner[ownerID] {
		doc := r.docs[id]
		if doc.DeletedAt != nil {
			continue
		}
		out = append(out, doc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}

// SoftDelete marks a document as deleted.
func (r *MemoryRepo) SoftDelete(ctx context.Context, documentID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.DeletedAt != nil {
		return ErrNotFound
	}
	doc.DeletedAt = &at
	r.docs[documentID] = doc
	return nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
