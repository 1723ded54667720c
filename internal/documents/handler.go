package documents

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/attachments"
	"record-attachments/internal/shared/server/respond"
)

// multipartOverhead is headroom for form boundaries and the typeId field.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/document-types", h.types)
	rg.GET("/owners/:ownerId/documents", h.list)
	rg.POST("/owners/:ownerId/documents", h.upload)
	rg.GET("/documents/:documentId/content", h.content)
	rg.DELETE("/documents/:documentId", h.delete)
}

func (h *Handler) types(c *gin.Context) {
	types, err := h.Svc.Types(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list document types", nil)
		return
	}
	resp := make([]DocumentTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, toTypeResponse(t))
	}
	respond.OK(c, resp)
}

func (h *Handler) list(c *gin.Context) {
	ownerID := c.Param("ownerId")
	c.Set("ownerId", ownerID)

	docs, err := h.Svc.List(c.Request.Context(), ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		}
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) upload(c *gin.Context) {
	ownerID := c.Param("ownerId")
	c.Set("ownerId", ownerID)

	limit := attachments.MaxUploadBytes
	if h.Svc.MaxUploadBytes > 0 && h.Svc.MaxUploadBytes < limit {
		limit = h.Svc.MaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the upload limit", rejection(attachments.ReasonTooLarge))
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	typeID, err := parseTypeID(c.PostForm("typeId"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), gin.H{"field": "typeId"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		OwnerID:   ownerID,
		TypeID:    typeID,
		FileName:  fileHeader.Filename,
		SizeBytes: fileHeader.Size,
		Body:      file,
	})
	if err != nil {
		var rejected *RejectedError
		switch {
		case errors.As(err, &rejected):
			respond.Error(c, http.StatusBadRequest, "validation_error", rejected.Msg, rejection(rejected.Reason))
		case errors.Is(err, ErrUnknownType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown document type", gin.H{"typeId": typeID})
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
		}
		return
	}

	c.Set("documentId", doc.ID)
	respond.Created(c, toResponse(doc))
}

func (h *Handler) content(c *gin.Context) {
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	doc, rc, err := h.Svc.Open(c.Request.Context(), documentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read document", nil)
		}
		return
	}
	defer rc.Close()

	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.Set("ownerId", doc.OwnerID)
	c.DataFromReader(http.StatusOK, doc.SizeBytes, mimeType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.FileName),
	})
}

func (h *Handler) delete(c *gin.Context) {
	documentID := c.Param("documentId")
	c.Set("documentId", documentID)

	doc, err := h.Svc.Delete(c.Request.Context(), documentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		}
		return
	}

	c.Set("ownerId", doc.OwnerID)
	respond.NoContent(c)
}

func parseTypeID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return attachments.NoType, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("typeId must be a non-negative integer")
	}
	return id, nil
}

func rejection(reason attachments.Reason) gin.H {
	return gin.H{"reason": string(reason)}
}
