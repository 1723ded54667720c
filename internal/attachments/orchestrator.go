package attachments

import (
	"context"
	"fmt"

	"record-attachments/internal/shared/telemetry"
)

// FileStatus is the terminal state of one file in a batch.
type FileStatus string

const (
	StatusRejected FileStatus = "rejected"
	StatusFailed   FileStatus = "failed"
	StatusUploaded FileStatus = "uploaded"
)

// FileOutcome is the per-file result of a batch, in batch order.
type FileOutcome struct {
	FileName   string
	Status     FileStatus
	Validation Outcome
	Document   *Document
	UploadErr  error
	// RefreshErr is set when the upload succeeded but the follow-up list refresh failed.
	RefreshErr error
}

// BatchResult is everything a batch produced: ordered outcomes, the last
// refreshed list and the notifications raised along the way.
type BatchResult struct {
	Outcomes      []FileOutcome
	Documents     []Document
	Refreshed     bool
	Notifications []Notification
}

// Uploaded counts files that reached the server.
func (r BatchResult) Uploaded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusUploaded {
			n++
		}
	}
	return n
}

// Failed counts files that were rejected or whose upload failed.
func (r BatchResult) Failed() int {
	return len(r.Outcomes) - r.Uploaded()
}

// Orchestrator drives a batch through validation and upload, one file at a time.
type Orchestrator struct {
	Backend Backend
	Sync    *Synchronizer
	// OnRefresh, when set, receives every refreshed list as soon as it arrives,
	// before the next file is processed.
	OnRefresh func([]Document)
	// OnNotify, when set, receives each notification as it is raised.
	OnNotify func(Notification)
}

// RunBatch processes batch strictly in order for ownerID. A nil t means no
// type is selected. Failures are isolated to their file; the batch always runs
// to the end.
func (o *Orchestrator) RunBatch(ctx context.Context, ownerID string, t *DocumentType, batch []Candidate) BatchResult {
	res := BatchResult{Outcomes: make([]FileOutcome, 0, len(batch))}
	for _, c := range batch {
		res = o.step(ctx, ownerID, t, c, res)
	}
	telemetry.Info("attachments.batch.complete", map[string]any{
		"owner_id": ownerID,
		"files":    len(batch),
		"uploaded": res.Uploaded(),
		"failed":   res.Failed(),
	})
	return res
}

func (o *Orchestrator) step(ctx context.Context, ownerID string, t *DocumentType, c Candidate, res BatchResult) BatchResult {
	name := c.Name()
	out := FileOutcome{FileName: name}

	out.Validation = Validate(c, t)
	if !out.Validation.Valid() {
		out.Status = StatusRejected
		verr := out.Validation.Err().(*ValidationError)
		res = o.emit(res, fileError(name, verr.Message(name, t)))
		telemetry.Info("attachments.upload.rejected", map[string]any{
			"owner_id":  ownerID,
			"file_name": name,
			"reason":    string(out.Validation.Reason),
		})
		res.Outcomes = append(res.Outcomes, out)
		return res
	}

	doc, err := o.upload(ctx, ownerID, t.ID, c)
	if err != nil {
		out.Status = StatusFailed
		out.UploadErr = err
		res = o.emit(res, fileError(name, fmt.Sprintf("%s: upload failed: %s", name, describe(err))))
		telemetry.Error("attachments.upload.failed", map[string]any{
			"owner_id":  ownerID,
			"file_name": name,
			"type_id":   t.ID,
			"err":       err.Error(),
		})
		res.Outcomes = append(res.Outcomes, out)
		return res
	}

	out.Status = StatusUploaded
	out.Document = &doc
	res = o.emit(res, Notification{
		Severity: SeveritySuccess,
		Message:  name + " uploaded",
		FileName: name,
	})
	telemetry.Info("attachments.upload.succeeded", map[string]any{
		"owner_id":    ownerID,
		"file_name":   name,
		"type_id":     t.ID,
		"document_id": doc.ID,
	})

	docs, err := o.Sync.Refresh(ctx, ownerID)
	if err != nil {
		out.RefreshErr = err
		res = o.emit(res, fileError(name, fmt.Sprintf("%s was uploaded but the document list could not be refreshed: %s", name, describe(err))))
		telemetry.Error("attachments.refresh.failed", map[string]any{
			"owner_id": ownerID,
			"err":      err.Error(),
		})
	} else {
		res.Documents = docs
		res.Refreshed = true
		if o.OnRefresh != nil {
			o.OnRefresh(docs)
		}
	}

	res.Outcomes = append(res.Outcomes, out)
	return res
}

func (o *Orchestrator) upload(ctx context.Context, ownerID string, typeID int64, c Candidate) (Document, error) {
	if c.File == nil {
		return Document{}, fmt.Errorf("no file handle")
	}
	rc, err := c.File.Open()
	if err != nil {
		return Document{}, fmt.Errorf("open file: %w", err)
	}
	defer rc.Close()
	return o.Backend.UploadDocument(ctx, ownerID, typeID, c.Name(), rc)
}

func (o *Orchestrator) emit(res BatchResult, n Notification) BatchResult {
	res.Notifications = append(res.Notifications, n)
	if o.OnNotify != nil {
		o.OnNotify(n)
	}
	return res
}

func fileError(name, msg string) Notification {
	return Notification{Severity: SeverityError, Message: msg, FileName: name}
}
