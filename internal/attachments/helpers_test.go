package attachments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

type memFile struct {
	name    string
	size    int64
	openErr error
}

func (f memFile) Name() string { return f.name }
func (f memFile) Size() int64  { return f.size }

func (f memFile) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader([]byte("content of " + f.name))), nil
}

func candidate(name string, size int64) Candidate {
	return NewCandidate(memFile{name: name, size: size})
}

// fakeBackend is an in-memory stand-in for the REST service that records every call.
type fakeBackend struct {
	mu    sync.Mutex
	types []DocumentType
	docs  map[string][]Document
	seq   int
	calls []string

	typesErr  error
	listErr   error
	deleteErr error
	uploadErr map[string]error
	// uploadGate, when set, blocks every upload until it receives a value.
	uploadGate chan struct{}
	// uploadStarted, when set, is signalled as each upload begins.
	uploadStarted chan string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		types: []DocumentType{
			{ID: 1, Name: "Invoice", AllowedExtensions: []string{"pdf", "jpg", "png"}},
			{ID: 2, Name: "Delivery Note", AllowedExtensions: []string{"pdf"}},
		},
		docs:      map[string][]Document{},
		uploadErr: map[string]error{},
	}
}

func (b *fakeBackend) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *fakeBackend) callLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) count(prefix string) int {
	n := 0
	for _, c := range b.callLog() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (b *fakeBackend) ListDocumentTypes(ctx context.Context) ([]DocumentType, error) {
	b.record("types")
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.typesErr != nil {
		return nil, b.typesErr
	}
	return append([]DocumentType(nil), b.types...), nil
}

func (b *fakeBackend) ListDocuments(ctx context.Context, ownerID string) ([]Document, error) {
	b.record("list " + ownerID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	return append([]Document(nil), b.docs[ownerID]...), nil
}

func (b *fakeBackend) UploadDocument(ctx context.Context, ownerID string, typeID int64, fileName string, r io.Reader) (Document, error) {
	b.record("upload " + fileName)
	if b.uploadStarted != nil {
		b.uploadStarted <- fileName
	}
	if b.uploadGate != nil {
		<-b.uploadGate
	}
	if _, err := io.ReadAll(r); err != nil {
		return Document{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.uploadErr[fileName]; err != nil {
		return Document{}, err
	}
	b.seq++
	doc := Document{
		ID:         fmt.Sprintf("doc-%d", b.seq),
		OwnerID:    ownerID,
		TypeID:     typeID,
		Name:       fileName,
		UploadedAt: time.Date(2026, 1, 1, 0, 0, b.seq, 0, time.UTC),
	}
	b.docs[ownerID] = append(b.docs[ownerID], doc)
	return doc, nil
}

func (b *fakeBackend) DeleteDocument(ctx context.Context, documentID string) error {
	b.record("delete " + documentID)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	for owner, docs := range b.docs {
		for i, d := range docs {
			if d.ID == documentID {
				b.docs[owner] = append(docs[:i:i], docs[i+1:]...)
				return nil
			}
		}
	}
	return &TransportError{Op: "delete document", StatusCode: 404, Code: "not_found", Message: "document not found"}
}

// seed inserts a document directly, as if uploaded out of band.
func (b *fakeBackend) seed(ownerID, name string) Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	doc := Document{ID: fmt.Sprintf("doc-%d", b.seq), OwnerID: ownerID, TypeID: 1, Name: name}
	b.docs[ownerID] = append(b.docs[ownerID], doc)
	return doc
}

type recordingPresenter struct {
	mu            sync.Mutex
	busy          []bool
	notifications []Notification
}

func (p *recordingPresenter) SetBusy(busy bool) {
	p.mu.Lock()
	p.busy = append(p.busy, busy)
	p.mu.Unlock()
}

func (p *recordingPresenter) Notify(n Notification) {
	p.mu.Lock()
	p.notifications = append(p.notifications, n)
	p.mu.Unlock()
}

func (p *recordingPresenter) errors() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Notification
	for _, n := range p.notifications {
		if n.Severity == SeverityError {
			out = append(out, n)
		}
	}
	return out
}

var errNetwork = errors.New("connection refused")
