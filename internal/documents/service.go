package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"record-attachments/internal/attachments"
	"record-attachments/internal/shared/metrics"
	"record-attachments/internal/shared/storage/object"
	"record-attachments/internal/shared/telemetry"
)

// Service contains business logic for document types and documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
	// MaxUploadBytes tightens the validation engine's cap when positive and smaller.
	MaxUploadBytes int64
	Now            func() time.Time
}

// UploadInput describes one incoming file.
type UploadInput struct {
	OwnerID   string
	TypeID    int64
	FileName  string
	SizeBytes int64
	Body      io.Reader
}

// Types lists the document type registry.
func (s *Service) Types(ctx context.Context) ([]DocumentType, error) {
	return s.Repo.ListTypes(ctx)
}

// List returns the owner's documents, oldest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Document, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner id required: %w", ErrInvalidInput)
	}
	return s.Repo.ListByOwner(ctx, ownerID)
}

// Upload validates the file against its type, saves the bytes and records the document.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Document, error) {
	start := time.Now()
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return Document{}, fmt.Errorf("owner id required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(in.FileName) == "" {
		return Document{}, fmt.Errorf("file name required: %w", ErrInvalidInput)
	}

	var rules *attachments.DocumentType
	if in.TypeID != attachments.NoType {
		t, err := s.Repo.GetType(ctx, in.TypeID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Document{}, ErrUnknownType
			}
			return Document{}, err
		}
		r := t.Rules()
		rules = &r
	}

	if err := s.validate(in, rules); err != nil {
		metrics.IncDocumentsRejected(string(err.Reason))
		telemetry.Info("documents.upload.rejected", map[string]any{
			"owner_id":   ownerID,
			"type_id":    in.TypeID,
			"file_name":  in.FileName,
			"size_bytes": in.SizeBytes,
			"reason":     string(err.Reason),
		})
		return Document{}, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, ownerID, in.FileName, in.Body)
	if err != nil {
		return Document{}, fmt.Errorf("save object: %w", err)
	}

	doc := Document{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		TypeID:          in.TypeID,
		FileName:        in.FileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.Store.Provider(),
		StorageKey:      storageKey,
		UploadedAt:      s.now(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("documents.upload.cleanup_failed", map[string]any{
				"owner_id":    ownerID,
				"storage_key": storageKey,
				"err":         delErr.Error(),
			})
		}
		return Document{}, fmt.Errorf("record document: %w", err)
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	metrics.IncDocumentsUploaded()
	metrics.ObserveUploadDurationMs(elapsed)
	telemetry.Info("documents.upload.stored", map[string]any{
		"owner_id":    ownerID,
		"document_id": doc.ID,
		"type_id":     doc.TypeID,
		"size_bytes":  doc.SizeBytes,
		"mime_type":   doc.MimeType,
		"storage":     doc.StorageProvider,
		"duration_ms": elapsed,
	})
	return doc, nil
}

func (s *Service) validate(in UploadInput, rules *attachments.DocumentType) *RejectedError {
	outcome := attachments.Validate(attachments.Candidate{
		Extension: attachments.ExtensionOf(in.FileName),
		SizeBytes: in.SizeBytes,
	}, rules)
	if !outcome.Valid() {
		verr := outcome.Err().(*attachments.ValidationError)
		return &RejectedError{Reason: outcome.Reason, Msg: verr.Message(in.FileName, rules)}
	}
	if s.MaxUploadBytes > 0 && in.SizeBytes > s.MaxUploadBytes {
		return &RejectedError{
			Reason: attachments.ReasonTooLarge,
			Msg:    fmt.Sprintf("%s: file exceeds the server limit of %d bytes", in.FileName, s.MaxUploadBytes),
		}
	}
	return nil
}

// Delete soft-deletes a document. Ids that are not UUIDs can never match and
// report ErrNotFound.
func (s *Service) Delete(ctx context.Context, documentID string) (Document, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return Document{}, fmt.Errorf("document id required: %w", ErrInvalidInput)
	}
	if _, err := uuid.Parse(documentID); err != nil {
		return Document{}, ErrNotFound
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if err := s.Repo.SoftDelete(ctx, documentID, s.now()); err != nil {
		return Document{}, err
	}
	metrics.IncDocumentsDeleted()
	telemetry.Info("documents.deleted", map[string]any{
		"owner_id":    doc.OwnerID,
		"document_id": doc.ID,
	})
	return doc, nil
}

// Open returns the document and a reader over its stored bytes. Callers close the reader.
func (s *Service) Open(ctx context.Context, documentID string) (Document, io.ReadCloser, error) {
	documentID = strings.TrimSpace(documentID)
	if _, err := uuid.Parse(documentID); err != nil {
		return Document{}, nil, ErrNotFound
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open object: %w", err)
	}
	return doc, rc, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
