package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"docscan/internal/document"
)

func createPath(mode document.Mode) string {
	switch mode {
	case document.ModePurchaseOrder:
		return "/api/po/create"
	case document.ModeSalesOrder:
		return "/api/so/create"
	default:
		return "/api/invoice/create"
	}
}

func numberKey(mode document.Mode) string {
	switch mode {
	case document.ModePurchaseOrder:
		return "po_number"
	case document.ModeSalesOrder:
		return "so_number"
	default:
		return "invoice_number"
	}
}

func dateKey(mode document.Mode) string {
	switch mode {
	case document.ModePurchaseOrder:
		return "po_date"
	case document.ModeSalesOrder:
		return "so_date"
	default:
		return "invoice_date"
	}
}

func referenceKey(mode document.Mode) string {
	switch mode {
	case document.ModePurchaseOrder:
		return "reference_supplier"
	case document.ModeSalesOrder:
		return "reference_customer"
	default:
		return "reference"
	}
}

// buildPayload flattens the edited document into the creation payload.
// Line quantities, prices and tax rates go out as normalized numbers,
// and the totals are recomputed from the lines right here so a stale
// Totals field can never reach the backend.
func buildPayload(doc *document.Document, mode document.Mode) map[string]any {
	totals := document.ComputeTotals(doc.Lines)

	lines := make([]map[string]any, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		qty := 1.0
		if strings.TrimSpace(l.Quantity) != "" {
			qty = document.Normalize(l.Quantity)
		}
		lines = append(lines, map[string]any{
			"name":          l.Name,
			"description":   l.Description,
			"expected_date": l.ExpectedDate,
			"quantity":      qty,
			"unit_price":    document.Normalize(l.UnitPrice),
			"tax_rate":      document.Normalize(l.TaxRate),
		})
	}

	return map[string]any{
		numberKey(mode):     doc.Number,
		dateKey(mode):       doc.Date,
		"expected_date":     doc.ExpectedDate,
		"payment_terms":     doc.PaymentTerms,
		referenceKey(mode):  doc.Reference,
		"vendor":            doc.Vendor,
		"customer":          doc.Customer,
		"shipping_address":  doc.Shipping,
		"lines":             lines,
		"totals":            totals,
		"total":             totals.Total,
	}
}

// Submit posts the edited document to the mode's creation endpoint.
// The backend occasionally answers with plain text instead of JSON, so
// the body is read as text first and parsed defensively: a parse
// failure is ErrSubmissionUnavailable, never a silent success. On
// success the created document's display name is returned.
func (c *Client) Submit(doc *document.Document, mode document.Mode) (string, error) {
	body, err := json.Marshal(buildPayload(doc, mode))
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+createPath(mode), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmissionUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrSubmissionUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("%w: non-JSON response: %.120q", ErrSubmissionUnavailable, string(raw))
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "document creation failed"
		}
		return "", &SubmissionError{Message: msg}
	}

	var created struct {
		Name string `json:"name"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &created); err == nil && created.Name != "" {
			return created.Name, nil
		}
	}
	return doc.Number, nil
}
