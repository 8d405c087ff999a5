package scan

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"docscan/internal/document"
	"docscan/internal/ocr"
	"docscan/internal/odoo"
)

// IDGenerator generates unique IDs for scan records and drafts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs the capture-to-submission pipeline: prepare the image,
// record it in history, recognize text, extract a structured draft,
// apply the user's edits and submit the confirmed document. Every
// stage is one best-effort attempt; a failure returns control to the
// caller who may retry from the failed stage.
type Service struct {
	db          DB
	recognizer  ocr.Recognizer
	backend     odoo.Backend
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, recognizer ocr.Recognizer, backend odoo.Backend, storage Storage) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		backend:     backend,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, recognizer ocr.Recognizer, backend odoo.Backend, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		backend:     backend,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	specialChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// sanitizeName cleans up phone-generated filenames into a short
// display name without extension.
func sanitizeName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = specialChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(multiSpace.ReplaceAllString(base, " "))
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "scan"
	}
	return base
}

// ProcessScan runs capture through extraction for one uploaded image.
// The history record is written before OCR starts, so a failure in a
// later stage still leaves a trace; when that happens the record is
// returned alongside the error. With mode "photo" the image is only
// stored and recorded, skipping OCR and extraction entirely.
func (s *Service) ProcessScan(filename string, data []byte, contentType string, mode string) (*Draft, *ScanRecord, error) {
	isPhoto := mode == TypePhoto
	if !isPhoto && !document.ValidMode(document.Mode(mode)) {
		return nil, nil, fmt.Errorf("unknown document mode %q", mode)
	}

	prepared, preparedType, err := ocr.Prepare(data, contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("preparing image: %w", err)
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()
	name := sanitizeName(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s.jpg", id, name), prepared)
	if err != nil {
		return nil, nil, fmt.Errorf("saving image: %w", err)
	}

	record := &ScanRecord{
		ID:          id,
		Type:        mode,
		Name:        name,
		ImagePath:   savedPath,
		ContentType: preparedType,
		Date:        now,
	}

	// History is best-effort: a persist failure must not abort the scan.
	if err := s.db.SaveRecord(record); err != nil {
		slog.Error("Failed to save history record", "scan_id", id, "error", err)
	}

	if isPhoto {
		return nil, record, nil
	}

	text, err := s.recognizer.Recognize(prepared, preparedType)
	if err != nil {
		slog.Error("Failed to recognize text",
			"scan_id", id,
			"file_size", len(prepared),
			"error", err,
		)
		return nil, record, fmt.Errorf("recognizing text: %w", err)
	}

	doc, err := s.backend.Extract(text, document.Mode(mode))
	if err != nil {
		slog.Error("Failed to extract document", "scan_id", id, "mode", mode, "error", err)
		return nil, record, fmt.Errorf("extracting document: %w", err)
	}

	draft := &Draft{
		ID:        id,
		Mode:      document.Mode(mode),
		ScanID:    id,
		Text:      text,
		Document:  *doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.SaveDraft(draft); err != nil {
		return nil, record, fmt.Errorf("saving draft: %w", err)
	}

	return draft, record, nil
}

// GetDraft retrieves a draft by ID
func (s *Service) GetDraft(id string) (*Draft, error) {
	draft, err := s.db.GetDraft(id)
	if err != nil {
		return nil, fmt.Errorf("getting draft: %w", err)
	}
	return draft, nil
}

// editDraft loads a draft, applies one mutation and persists the
// result. The mutation itself refreshes the derived totals.
func (s *Service) editDraft(id string, edit func(*document.Document)) (*Draft, error) {
	draft, err := s.db.GetDraft(id)
	if err != nil {
		return nil, fmt.Errorf("getting draft: %w", err)
	}

	edit(&draft.Document)
	draft.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveDraft(draft); err != nil {
		return nil, fmt.Errorf("saving draft: %w", err)
	}
	return draft, nil
}

// UpdateDraftField replaces a header or party field on the draft.
func (s *Service) UpdateDraftField(id, path, value string) (*Draft, error) {
	return s.editDraft(id, func(d *document.Document) {
		d.SetField(path, value)
	})
}

// UpdateDraftLine replaces one field of one line. An out-of-range
// index leaves the draft unchanged.
func (s *Service) UpdateDraftLine(id string, index int, field, value string) (*Draft, error) {
	return s.editDraft(id, func(d *document.Document) {
		d.SetLineField(index, field, value)
	})
}

// AddDraftLine appends an empty line with quantity "1".
func (s *Service) AddDraftLine(id string) (*Draft, error) {
	return s.editDraft(id, func(d *document.Document) {
		d.AddLine()
	})
}

// RemoveDraftLine removes the line at index.
func (s *Service) RemoveDraftLine(id string, index int) (*Draft, error) {
	return s.editDraft(id, func(d *document.Document) {
		d.RemoveLine(index)
	})
}

// SubmitDraft sends the edited document to the backend for creation
// and drops the draft on success. Returns the created document's
// display name.
func (s *Service) SubmitDraft(id string) (string, error) {
	draft, err := s.db.GetDraft(id)
	if err != nil {
		return "", fmt.Errorf("getting draft: %w", err)
	}

	name, err := s.backend.Submit(&draft.Document, draft.Mode)
	if err != nil {
		return "", fmt.Errorf("submitting document: %w", err)
	}

	if err := s.db.DeleteDraft(id); err != nil {
		slog.Warn("Failed to delete submitted draft", "draft_id", id, "error", err)
	}
	return name, nil
}

// History returns scan records, newest first, optionally filtered by
// document type. Filtering and ordering are projections for display;
// the stored list is untouched.
func (s *Service) History(typeFilter string) ([]*ScanRecord, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	if typeFilter != "" && typeFilter != "all" {
		filtered := make([]*ScanRecord, 0, len(records))
		for _, r := range records {
			if r.Type == typeFilter {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

// GetRecord retrieves one history entry by ID.
func (s *Service) GetRecord(id string) (*ScanRecord, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return record, nil
}

// GetRecordImage retrieves the stored image for a history entry.
func (s *Service) GetRecordImage(id string) ([]byte, string, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting record: %w", err)
	}

	data, err := s.storage.Get(record.ImagePath)
	if err != nil {
		return nil, "", fmt.Errorf("getting record image: %w", err)
	}
	return data, record.ContentType, nil
}

// DeleteRecord removes a history entry and its stored image.
func (s *Service) DeleteRecord(id string) error {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return fmt.Errorf("getting record for deletion: %w", err)
	}

	if err := s.storage.Delete(record.ImagePath); err != nil {
		// Keep going; the history entry is the authoritative state.
		slog.Warn("Failed to delete image", "path", record.ImagePath, "error", err)
	}

	if err := s.db.DeleteRecord(id); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}
