package attachments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"record-attachments/internal/shared/telemetry"
)

// Phase is the lifecycle state of a Screen.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
	PhaseUploading     Phase = "uploading"
)

// State is a snapshot of everything a Screen displays.
type State struct {
	Phase          Phase
	OwnerID        string
	Types          []DocumentType
	SelectedTypeID int64
	Documents      []Document
	Busy           bool
	Drag           DragState
	// Notifications holds what the most recent operation raised.
	Notifications []Notification
}

// Screen is one attachment screen bound to an owning record. Its document
// list is only ever replaced wholesale from a refresh, and at most one
// operation that touches the backend runs at a time.
type Screen struct {
	registry  *Registry
	sync      *Synchronizer
	presenter Presenter
	confirmer Confirmer

	mu            sync.Mutex
	phase         Phase
	ownerID       string
	types         []DocumentType
	selected      int64
	docs          []Document
	busy          bool
	drag          DragCapture
	notifications []Notification
}

// NewScreen builds a Screen. A nil presenter discards UI updates; a nil
// confirmer declines every delete.
func NewScreen(backend Backend, presenter Presenter, confirmer Confirmer) *Screen {
	if presenter == nil {
		presenter = nopPresenter{}
	}
	return &Screen{
		registry:  &Registry{Backend: backend},
		sync:      &Synchronizer{Backend: backend},
		presenter: presenter,
		confirmer: confirmer,
		phase:     PhaseUninitialized,
	}
}

// State returns a copy of the current state.
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Phase:          s.phase,
		OwnerID:        s.ownerID,
		Types:          append([]DocumentType(nil), s.types...),
		SelectedTypeID: s.selected,
		Documents:      append([]Document(nil), s.docs...),
		Busy:           s.busy,
		Drag:           s.drag.State(),
		Notifications:  append([]Notification(nil), s.notifications...),
	}
}

// Activate binds the screen to ownerID, loads the document types and the
// owner's documents. Failures are notified; the screen still becomes Ready.
func (s *Screen) Activate(ctx context.Context, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return ErrNoOwner
	}
	if err := s.begin(PhaseLoading, true); err != nil {
		return err
	}
	s.mu.Lock()
	if s.ownerID != ownerID {
		s.docs = nil
	}
	s.ownerID = ownerID
	s.mu.Unlock()

	var errs []error
	types, err := s.registry.List(ctx)
	if err != nil {
		errs = append(errs, err)
		s.notify(Notification{Severity: SeverityError, Message: "Could not load document types: " + describe(err)})
	} else {
		s.mu.Lock()
		s.types = types
		s.selected = ResolveSelection(types, s.selected)
		s.mu.Unlock()
	}

	if err := s.refresh(ctx, ownerID); err != nil {
		errs = append(errs, err)
	}

	s.end(PhaseReady)
	return errors.Join(errs...)
}

// SelectType changes the active document type. id must be NoType or a loaded type.
func (s *Screen) SelectType(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != NoType && FindType(s.types, id) == nil {
		return fmt.Errorf("%w: %d", ErrUnknownType, id)
	}
	s.selected = id
	return nil
}

// Refresh re-fetches the owner's documents.
func (s *Screen) Refresh(ctx context.Context) error {
	if err := s.begin(PhaseReady, false); err != nil {
		return err
	}
	defer s.end(PhaseReady)
	return s.refresh(ctx, s.owner())
}

// Upload runs files as one batch against the selected type. It is rejected
// with ErrBatchInProgress while another operation holds the busy indicator.
func (s *Screen) Upload(ctx context.Context, files []Candidate) (BatchResult, error) {
	if err := s.begin(PhaseUploading, false); err != nil {
		return BatchResult{}, err
	}
	defer s.end(PhaseReady)

	s.mu.Lock()
	ownerID := s.ownerID
	t := FindType(s.types, s.selected)
	s.mu.Unlock()

	orch := &Orchestrator{
		Backend:   s.sync.Backend,
		Sync:      s.sync,
		OnRefresh: s.replace,
		OnNotify:  s.notify,
	}
	return orch.RunBatch(ctx, ownerID, t, files), nil
}

// HandleDrag feeds a drag event to the drop zone. A drop starts a batch and
// its result is returned; other events return nil.
func (s *Screen) HandleDrag(ctx context.Context, ev *DragEvent) (*BatchResult, error) {
	s.mu.Lock()
	batch, dropped := s.drag.Handle(ev)
	s.mu.Unlock()
	if !dropped {
		return nil, nil
	}
	res, err := s.Upload(ctx, batch)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete removes a document after the confirmer approves. It returns false
// without issuing any request when confirmation is declined.
func (s *Screen) Delete(ctx context.Context, documentID string) (bool, error) {
	if err := s.begin(PhaseReady, false); err != nil {
		return false, err
	}
	defer s.end(PhaseReady)

	s.mu.Lock()
	ownerID := s.ownerID
	name := documentID
	for _, d := range s.docs {
		if d.ID == documentID && d.Name != "" {
			name = d.Name
			break
		}
	}
	s.mu.Unlock()

	res, err := s.sync.Delete(ctx, ownerID, documentID, name, s.confirmer)
	if err != nil {
		s.notify(Notification{Severity: SeverityError, Message: "Could not delete " + name + ": " + describe(err)})
		telemetry.Error("attachments.delete.failed", map[string]any{
			"owner_id":    ownerID,
			"document_id": documentID,
			"err":         err.Error(),
		})
		return false, err
	}
	if !res.Confirmed {
		return false, nil
	}

	s.notify(Notification{Severity: SeveritySuccess, Message: name + " deleted"})
	telemetry.Info("attachments.delete.succeeded", map[string]any{
		"owner_id":    ownerID,
		"document_id": documentID,
	})
	if res.RefreshErr != nil {
		s.notify(Notification{Severity: SeverityError, Message: "Could not refresh documents: " + describe(res.RefreshErr)})
		telemetry.Error("attachments.refresh.failed", map[string]any{
			"owner_id": ownerID,
			"err":      res.RefreshErr.Error(),
		})
		return true, nil
	}
	s.replace(res.Documents)
	return true, nil
}

func (s *Screen) owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerID
}

func (s *Screen) refresh(ctx context.Context, ownerID string) error {
	docs, err := s.sync.Refresh(ctx, ownerID)
	if err != nil {
		s.notify(Notification{Severity: SeverityError, Message: "Could not load documents: " + describe(err)})
		telemetry.Error("attachments.refresh.failed", map[string]any{
			"owner_id": ownerID,
			"err":      err.Error(),
		})
		return err
	}
	s.replace(docs)
	return nil
}

func (s *Screen) replace(docs []Document) {
	s.mu.Lock()
	s.docs = append([]Document(nil), docs...)
	s.mu.Unlock()
}

func (s *Screen) notify(n Notification) {
	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()
	s.presenter.Notify(n)
}

// begin claims the busy indicator and moves to phase. Activation is the only
// operation allowed from Uninitialized.
func (s *Screen) begin(phase Phase, activating bool) error {
	s.mu.Lock()
	if !activating && s.phase == PhaseUninitialized {
		s.mu.Unlock()
		return ErrNotActive
	}
	if s.busy {
		s.mu.Unlock()
		s.presenter.Notify(Notification{Severity: SeverityError, Message: "Please wait for the current upload to finish"})
		return ErrBatchInProgress
	}
	s.busy = true
	s.phase = phase
	s.notifications = nil
	s.mu.Unlock()
	s.presenter.SetBusy(true)
	return nil
}

func (s *Screen) end(phase Phase) {
	s.mu.Lock()
	s.busy = false
	s.phase = phase
	s.mu.Unlock()
	s.presenter.SetBusy(false)
}
