package attachments

import (
	"context"
	"fmt"
)

// Registry loads the selectable document types from the backend.
type Registry struct {
	Backend Backend
}

// List fetches the document types. The result is a fresh copy with allowlists normalized.
func (r *Registry) List(ctx context.Context) ([]DocumentType, error) {
	types, err := r.Backend.ListDocumentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	out := make([]DocumentType, 0, len(types))
	for _, t := range types {
		out = append(out, DocumentType{
			ID:                t.ID,
			Name:              t.Name,
			AllowedExtensions: ParseAllowlist(FormatAllowlist(t.AllowedExtensions)),
		})
	}
	return out, nil
}

// ResolveSelection picks the selected type id after a reload. An existing
// selection is kept when it is still present; otherwise the first type becomes
// the default, or NoType when the set is empty.
func ResolveSelection(types []DocumentType, current int64) int64 {
	if current != NoType && FindType(types, current) != nil {
		return current
	}
	if len(types) == 0 {
		return NoType
	}
	return types[0].ID
}

// FindType returns the type with id, or nil.
func FindType(types []DocumentType, id int64) *DocumentType {
	if id == NoType {
		return nil
	}
	for i := range types {
		if types[i].ID == id {
			t := types[i]
			return &t
		}
	}
	return nil
}
