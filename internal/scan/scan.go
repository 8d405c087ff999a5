package scan

import (
	"time"

	"docscan/internal/document"
)

// TypePhoto marks a history entry for a plain photo capture that went
// through no OCR or extraction.
const TypePhoto = "photo"

// ScanRecord is one history entry referencing a captured image. It is
// immutable once created; deletion keys on the generated ID, not the
// timestamp, so two captures in the same clock tick cannot collide.
type ScanRecord struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // invoice, po, so or photo
	Name        string    `json:"name"`
	ImagePath   string    `json:"image_path"`
	ContentType string    `json:"content_type"`
	Date        time.Time `json:"date"`
}

// Draft holds the editable extracted document between extraction and
// submission. Its embedded Document carries derived totals refreshed
// on every edit.
type Draft struct {
	ID        string            `json:"id"`
	Mode      document.Mode     `json:"mode"`
	ScanID    string            `json:"scan_id"`
	Text      string            `json:"text"`
	Document  document.Document `json:"document"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
