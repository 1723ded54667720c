package documents

import "time"

// DocumentTypeResponse is the outward-facing representation of a document type.
type DocumentTypeResponse struct {
	TypeID            int64  `json:"typeId"`
	TypeName          string `json:"typeName"`
	AllowedExtensions string `json:"allowedExtensions"`
}

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID   string    `json:"documentId"`
	OwnerID      string    `json:"ownerId"`
	TypeID       int64     `json:"typeId"`
	DocumentName string    `json:"documentName"`
	MimeType     string    `json:"mimeType,omitempty"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toTypeResponse(t DocumentType) DocumentTypeResponse {
	return DocumentTypeResponse{
		TypeID:            t.ID,
		TypeName:          t.Name,
		AllowedExtensions: t.AllowedExtensions,
	}
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:   doc.ID,
		OwnerID:      doc.OwnerID,
		TypeID:       doc.TypeID,
		DocumentName: doc.FileName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		UploadedAt:   doc.UploadedAt,
	}
}
