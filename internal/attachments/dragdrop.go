package attachments

// DragState is the presentational drag indicator.
type DragState int

const (
	DragIdle DragState = iota
	DragActive
)

func (s DragState) String() string {
	if s == DragActive {
		return "drag_active"
	}
	return "idle"
}

// EventType names the drag events the capture reacts to.
type EventType string

const (
	EventDragEnter EventType = "dragenter"
	EventDragOver  EventType = "dragover"
	EventDragLeave EventType = "dragleave"
	EventDrop      EventType = "drop"
)

// DragEvent is a single drag/drop event. Files is only meaningful for drops.
type DragEvent struct {
	Type  EventType
	Files []FileHandle

	defaultPrevented bool
}

// PreventDefault suppresses the host's default action for the event.
func (e *DragEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *DragEvent) DefaultPrevented() bool { return e.defaultPrevented }

// DragCapture is the two-state drag indicator machine. Its state never feeds
// into validation or upload decisions.
type DragCapture struct {
	state DragState
}

// State returns the current indicator state.
func (d *DragCapture) State() DragState { return d.state }

// Handle applies ev. For a drop it returns the dropped files as a batch and
// true; otherwise nil and false. Unknown event types are ignored and left
// with their default action.
func (d *DragCapture) Handle(ev *DragEvent) ([]Candidate, bool) {
	switch ev.Type {
	case EventDragEnter, EventDragOver:
		ev.PreventDefault()
		d.state = DragActive
	case EventDragLeave:
		ev.PreventDefault()
		d.state = DragIdle
	case EventDrop:
		ev.PreventDefault()
		d.state = DragIdle
		batch := make([]Candidate, 0, len(ev.Files))
		for _, f := range ev.Files {
			batch = append(batch, NewCandidate(f))
		}
		return batch, true
	}
	return nil, false
}
