package attachments

import "fmt"

// Reason names why a candidate was rejected before upload.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNoTypeSelected      Reason = "no_type_selected"
	ReasonExtensionNotAllowed Reason = "extension_not_allowed"
	ReasonTooLarge            Reason = "too_large"
)

// Outcome is the result of validating a single candidate.
type Outcome struct {
	Reason Reason
}

// Valid reports whether the candidate may be uploaded.
func (o Outcome) Valid() bool { return o.Reason == ReasonNone }

// Err returns a ValidationError for invalid outcomes and nil otherwise.
func (o Outcome) Err() error {
	if o.Valid() {
		return nil
	}
	return &ValidationError{Reason: o.Reason}
}

// Validate decides whether c is acceptable for t. A nil t means no type is selected.
// Rules apply in order: type selected, extension allowed, size within MaxUploadBytes.
func Validate(c Candidate, t *DocumentType) Outcome {
	if t == nil {
		return Outcome{Reason: ReasonNoTypeSelected}
	}
	if !t.Allows(c.Extension) {
		return Outcome{Reason: ReasonExtensionNotAllowed}
	}
	if c.SizeBytes > MaxUploadBytes {
		return Outcome{Reason: ReasonTooLarge}
	}
	return Outcome{}
}

// ValidationError is a local, per-file rejection.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return "validation: " + string(e.Reason)
}

// Message renders a user-facing explanation for a rejected file.
func (e *ValidationError) Message(fileName string, t *DocumentType) string {
	switch e.Reason {
	case ReasonNoTypeSelected:
		return "Select a document type before uploading " + fileName
	case ReasonExtensionNotAllowed:
		if t != nil {
			return fmt.Sprintf("%s: file type not allowed for %s (allowed: %s)", fileName, t.Name, FormatAllowlist(t.AllowedExtensions))
		}
		return fileName + ": file type not allowed"
	case ReasonTooLarge:
		return fmt.Sprintf("%s: file exceeds the %d MB limit", fileName, MaxUploadBytes>>20)
	default:
		return fileName + ": " + string(e.Reason)
	}
}
