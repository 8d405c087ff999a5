package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"docscan/internal/document"
)

// extractPath returns the extraction endpoint for a document mode.
// The invoice path is /api/ocr/ai_extract for historical reasons.
func extractPath(mode document.Mode) string {
	switch mode {
	case document.ModePurchaseOrder:
		return "/api/po/ai_extract"
	case document.ModeSalesOrder:
		return "/api/so/ai_extract"
	default:
		return "/api/ocr/ai_extract"
	}
}

// Extract posts the OCR text to the mode's extraction endpoint and
// maps the backend's loosely-shaped payload into a canonical Document.
// A backend-reported failure surfaces as *ExtractionError; transport
// and decode problems surface as ErrExtractionUnavailable. Single
// attempt, no retry.
func (c *Client) Extract(text string, mode document.Mode) (*document.Document, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+extractPath(mode), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrExtractionUnavailable, err)
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return nil, &ExtractionError{Message: msg}
	}

	raw := map[string]any{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return nil, fmt.Errorf("%w: decoding document data: %v", ErrExtractionUnavailable, err)
		}
	}

	return MapDocument(raw), nil
}
