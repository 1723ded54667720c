package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"record-attachments/internal/attachments"
)

const defaultTimeout = 60 * time.Second

// Client implements attachments.Backend against the documents REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Options configures a Client.
type Options struct {
	// Token, when set, is sent as a bearer token on every request.
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the transport; Token and Timeout still apply.
	HTTPClient *http.Client
}

// New constructs a Client rooted at baseURL (for example http://localhost:8080/api/v1).
func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}

	hc := &http.Client{}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		hc = &cp
	}
	if token := strings.TrimSpace(opts.Token); token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc.Timeout = timeout

	return &Client{baseURL: baseURL, httpClient: hc}, nil
}

type documentTypeDTO struct {
	TypeID            int64  `json:"typeId"`
	TypeName          string `json:"typeName"`
	AllowedExtensions string `json:"allowedExtensions"`
}

type documentDTO struct {
	DocumentID   string    `json:"documentId"`
	OwnerID      string    `json:"ownerId"`
	TypeID       int64     `json:"typeId"`
	DocumentName string    `json:"documentName"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func (d documentDTO) toDocument() attachments.Document {
	return attachments.Document{
		ID:         d.DocumentID,
		OwnerID:    d.OwnerID,
		TypeID:     d.TypeID,
		Name:       d.DocumentName,
		UploadedAt: d.UploadedAt,
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ListDocumentTypes fetches GET /document-types.
func (c *Client) ListDocumentTypes(ctx context.Context) ([]attachments.DocumentType, error) {
	const op = "list document types"
	var body []documentTypeDTO
	if err := c.do(ctx, op, http.MethodGet, "/document-types", nil, "", http.StatusOK, &body); err != nil {
		return nil, err
	}
	out := make([]attachments.DocumentType, 0, len(body))
	for _, t := range body {
		out = append(out, attachments.DocumentType{
			ID:                t.TypeID,
			Name:              t.TypeName,
			AllowedExtensions: attachments.ParseAllowlist(t.AllowedExtensions),
		})
	}
	return out, nil
}

// ListDocuments fetches GET /owners/{ownerID}/documents.
func (c *Client) ListDocuments(ctx context.Context, ownerID string) ([]attachments.Document, error) {
	const op = "list documents"
	var body []documentDTO
	path := "/owners/" + url.PathEscape(ownerID) + "/documents"
	if err := c.do(ctx, op, http.MethodGet, path, nil, "", http.StatusOK, &body); err != nil {
		return nil, err
	}
	out := make([]attachments.Document, 0, len(body))
	for _, d := range body {
		out = append(out, d.toDocument())
	}
	return out, nil
}

// UploadDocument posts a multipart form with typeId and file to /owners/{ownerID}/documents.
func (c *Client) UploadDocument(ctx context.Context, ownerID string, typeID int64, fileName string, r io.Reader) (attachments.Document, error) {
	const op = "upload document"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("typeId", strconv.FormatInt(typeID, 10)); err != nil {
		return attachments.Document{}, &attachments.TransportError{Op: op, Err: err}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return attachments.Document{}, &attachments.TransportError{Op: op, Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return attachments.Document{}, &attachments.TransportError{Op: op, Err: fmt.Errorf("read file: %w", err)}
	}
	if err := w.Close(); err != nil {
		return attachments.Document{}, &attachments.TransportError{Op: op, Err: err}
	}

	var body documentDTO
	path := "/owners/" + url.PathEscape(ownerID) + "/documents"
	if err := c.do(ctx, op, http.MethodPost, path, &buf, w.FormDataContentType(), http.StatusCreated, &body); err != nil {
		return attachments.Document{}, err
	}
	return body.toDocument(), nil
}

// DeleteDocument issues DELETE /documents/{documentID}.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	const op = "delete document"
	path := "/documents/" + url.PathEscape(documentID)
	return c.do(ctx, op, http.MethodDelete, path, nil, "", http.StatusNoContent, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, want int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &attachments.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &attachments.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeFailure(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &attachments.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeFailure(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	te := &attachments.TransportError{Op: op, StatusCode: resp.StatusCode}
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
		te.Code = env.Error.Code
		te.Message = env.Error.Message
	} else if msg := strings.TrimSpace(string(raw)); msg != "" {
		te.Message = msg
	} else {
		te.Message = http.StatusText(resp.StatusCode)
	}
	te.Err = errors.New(te.Message)
	return te
}

var _ attachments.Backend = (*Client)(nil)
