package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// ListTypes returns all document types ordered by id.
func (r *PGRepo) ListTypes(ctx context.Context) ([]DocumentType, error) {
	const query = `
SELECT id, name, allowed_extensions
FROM document_types
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentType
	for rows.Next() {
		var t DocumentType
		if err := rows.Scan(&t.ID, &t.Name, &t.AllowedExtensions); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetType returns a document type by id.
func (r *PGRepo) GetType(ctx context.Context, typeID int64) (DocumentType, error) {
	const query = `
SELECT id, name, allowed_extensions
FROM document_types
WHERE id = $1`
	var t DocumentType
	err := r.DB.QueryRowContext(ctx, query, typeID).Scan(&t.ID, &t.Name, &t.AllowedExtensions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DocumentType{}, ErrNotFound
		}
		return DocumentType{}, err
	}
	return t, nil
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    owner_id,
    type_id,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	storageProvider := doc.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.OwnerID,
		doc.TypeID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		storageProvider,
		doc.StorageKey,
		doc.UploadedAt,
	)
	return err
}

const selectDocuments = `
SELECT id, owner_id, type_id, file_name, mime_type, size_bytes, storage_provider, storage_key, uploaded_at
FROM documents`

// GetByID fetches a non-deleted document by id.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := selectDocuments + `
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByOwner returns the owner's non-deleted documents, oldest first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	query := selectDocuments + `
WHERE owner_id = $1 AND deleted_at IS NULL
ORDER BY uploaded_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// SoftDelete marks a document as deleted.
func (r *PGRepo) SoftDelete(ctx context.Context, documentID string, at time.Time) error {
	const query = `
UPDATE documents
SET deleted_at = $1
WHERE id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, at, documentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var mimeType sql.NullString
	var storageProvider sql.NullString
	var storageKey sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.TypeID,
		&doc.FileName,
		&mimeType,
		&doc.SizeBytes,
		&storageProvider,
		&storageKey,
		&doc.UploadedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if mimeType.Valid {
		doc.MimeType = mimeType.String
	}
	if storageProvider.Valid {
		doc.StorageProvider = storageProvider.String
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	return doc, nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
