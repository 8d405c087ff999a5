// Package odoo talks to the business-system backend: it forwards OCR
// text for structured extraction and posts confirmed documents for
// creation. Both calls are single best-effort attempts; recovery is
// always user-initiated.
package odoo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"docscan/internal/document"
)

var (
	// ErrExtractionUnavailable covers transport failures and
	// undecodable responses from the extraction endpoint.
	ErrExtractionUnavailable = errors.New("extraction backend unavailable")

	// ErrSubmissionUnavailable covers transport failures and non-JSON
	// response bodies from the creation endpoint. A body that does not
	// parse is never treated as success.
	ErrSubmissionUnavailable = errors.New("submission backend unavailable")
)

// ExtractionError is a failure the extraction backend reported itself.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Message
}

// SubmissionError is a rejection the creation backend reported itself.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	return "submission rejected: " + e.Message
}

// Backend is the interface the pipeline depends on.
type Backend interface {
	// Extract interprets OCR plain text as a structured document.
	Extract(text string, mode document.Mode) (*document.Document, error)
	// Submit creates the document in the backend and returns its
	// display name.
	Submit(doc *document.Document, mode document.Mode) (string, error)
}

// Client implements Backend against one configured backend address.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend client for a base URL such as
// "http://erp.example.com:8069".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the response shape shared by all backend endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
