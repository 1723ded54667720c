package attachments

import (
	"context"
	"fmt"
	"strings"
)

// Synchronizer keeps the displayed document list equal to the server's state.
// It never merges: every refresh is a full fetch that replaces the local copy.
type Synchronizer struct {
	Backend Backend
}

// Refresh fetches the canonical list for ownerID. The returned slice is owned by the caller.
func (s *Synchronizer) Refresh(ctx context.Context, ownerID string) ([]Document, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrNoOwner
	}
	docs, err := s.Backend.ListDocuments(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]Document, len(docs))
	copy(out, docs)
	return out, nil
}

// DeleteResult describes a delete attempt.
type DeleteResult struct {
	Confirmed bool
	Deleted   bool
	// Documents is the refreshed list; nil when no refresh happened or it failed.
	Documents  []Document
	RefreshErr error
}

// Delete asks confirm before issuing the delete. Declining issues no request.
// After a successful delete the list is refreshed; a refresh failure is
// reported in RefreshErr and does not undo the delete.
func (s *Synchronizer) Delete(ctx context.Context, ownerID, documentID, documentName string, confirm Confirmer) (DeleteResult, error) {
	prompt := fmt.Sprintf("Delete %s?", documentName)
	if strings.TrimSpace(documentName) == "" {
		prompt = "Delete this document?"
	}
	if confirm == nil || !confirm.Confirm(prompt) {
		return DeleteResult{}, nil
	}
	if err := s.Backend.DeleteDocument(ctx, documentID); err != nil {
		return DeleteResult{Confirmed: true}, fmt.Errorf("delete document: %w", err)
	}
	res := DeleteResult{Confirmed: true, Deleted: true}
	docs, err := s.Refresh(ctx, ownerID)
	if err != nil {
		res.RefreshErr = err
		return res, nil
	}
	res.Documents = docs
	return res, nil
}
