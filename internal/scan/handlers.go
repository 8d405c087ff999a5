package scan

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"docscan/internal/document"
	"docscan/internal/ocr"
	"docscan/internal/odoo"
)

// Pipeline stages reported in error responses so a client can offer a
// retry from the stage that failed.
const (
	stageCapture    = "capture"
	stageOCR        = "ocr"
	stageExtraction = "extraction"
	stageSubmission = "submission"
)

// errorResponse is the JSON body for every failed request. ScanID is
// set when a history record was persisted before the failure.
type errorResponse struct {
	Stage  string `json:"stage,omitempty"`
	Error  string `json:"error"`
	ScanID string `json:"scan_id,omitempty"`
}

// classifyError maps a pipeline error to its stage and HTTP status.
// Reported failures (the remote service answered and said no) are 422;
// transport-level failures are 502.
func classifyError(err error) (string, int) {
	var extractionErr *odoo.ExtractionError
	var submissionErr *odoo.SubmissionError

	switch {
	case errors.Is(err, ocr.ErrBadImage):
		return stageCapture, http.StatusBadRequest
	case errors.Is(err, ocr.ErrNoText):
		return stageOCR, http.StatusUnprocessableEntity
	case errors.Is(err, ocr.ErrUnavailable):
		return stageOCR, http.StatusBadGateway
	case errors.As(err, &extractionErr):
		return stageExtraction, http.StatusUnprocessableEntity
	case errors.Is(err, odoo.ErrExtractionUnavailable):
		return stageExtraction, http.StatusBadGateway
	case errors.As(err, &submissionErr):
		return stageSubmission, http.StatusUnprocessableEntity
	case errors.Is(err, odoo.ErrSubmissionUnavailable):
		return stageSubmission, http.StatusBadGateway
	case errors.Is(err, ErrNotFound):
		return "", http.StatusNotFound
	default:
		return "", http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error, scanID string) {
	stage, code := classifyError(err)
	setCORSHeaders(w)
	writeJSON(w, code, errorResponse{Stage: stage, Error: err.Error(), ScanID: scanID})
}

// handleUploadScan accepts a multipart image upload and runs it
// through the pipeline. On success it returns the draft and its
// history record; with mode "photo" only the record.
func (s *Server) handleUploadScan(w http.ResponseWriter, r *http.Request) {
	// Max 50MB to handle high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		setCORSHeaders(w)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB."
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Stage: stageCapture, Error: errorMsg})
		return
	}

	mode := r.FormValue("mode")
	if mode != TypePhoto && !document.ValidMode(document.Mode(mode)) {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Stage: stageCapture,
			Error: "mode must be one of: invoice, po, so, photo",
		})
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, errorResponse{Stage: stageCapture, Error: "No file provided"})
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Stage: stageCapture,
			Error: "File is too large. Maximum size is 50MB.",
		})
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		setCORSHeaders(w)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Stage: stageCapture, Error: "Error reading file"})
		return
	}

	// Determine content type
	contentType := header.Header.Get("Content-Type")
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	draft, record, err := s.service.ProcessScan(header.Filename, data, contentType, mode)
	if err != nil {
		slog.Error("Error processing scan", "filename", header.Filename, "mode", mode, "error", err)
		scanID := ""
		if record != nil {
			scanID = record.ID
		}
		writeError(w, err, scanID)
		return
	}

	response := map[string]any{"scan": record}
	if draft != nil {
		response["draft"] = draft
	}
	writeJSON(w, http.StatusCreated, response)
}

// handleListHistory returns scan history, newest first, optionally
// filtered by ?type=invoice|po|so|photo.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.History(r.URL.Query().Get("type"))
	if err != nil {
		slog.Error("Error listing history", "error", err)
		writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// handleGetHistoryEntry returns a single history entry
func (s *Server) handleGetHistoryEntry(w http.ResponseWriter, r *http.Request) {
	record, err := s.service.GetRecord(r.PathValue("id"))
	if err != nil {
		writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleGetHistoryImage returns the stored image for a history entry
func (s *Server) handleGetHistoryImage(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetRecordImage(r.PathValue("id"))
	if err != nil {
		writeError(w, err, "")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteHistoryEntry deletes a history entry and its image
func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRecord(r.PathValue("id")); err != nil {
		writeError(w, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetDraft returns a draft by ID
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.service.GetDraft(r.PathValue("id"))
	if err != nil {
		writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// handleUpdateDraftField replaces one header or party field
func (s *Server) handleUpdateDraftField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path  string `json:"path"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	draft, err := s.service.UpdateDraftField(r.PathValue("id"), req.Path, req.Value)
	if err != nil {
		writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// handleUpdateDraftLine replaces one field of one line
func (s *Server) handleUpdateDraftLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid line index"})
		return
	}

	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	draft, err := s.service.UpdateDraftLine(r.PathValue("id"), index, req.Field, req.Value)
	if err != nil {
		writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// handleAddDraftLine appends an empty line to the draft
func (s *Server) handleAddDraftLine(w http.ResponseWriter, r *http.Request) {
	draft, err := s.service.AddDraftLine(r.PathValue("id"))
	if err != nil {
		writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// handleRemoveDraftLine removes the line at index
func (s *Server) handleRemoveDraftLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid line index"})
		return
	}

	draft, err := s.service.RemoveDraftLine(r.PathValue("id"), index)
	if err != nil {
		writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// handleSubmitDraft sends the draft to the backend for creation
func (s *Server) handleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	name, err := s.service.SubmitDraft(r.PathValue("id"))
	if err != nil {
		slog.Error("Error submitting draft", "draft_id", r.PathValue("id"), "error", err)
		writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}
