package odoo

import (
	"encoding/json"
	"strconv"
	"strings"

	"docscan/internal/document"
)

// The extraction backend is not consistent about key names: depending
// on the document mode and prompt revision it answers with canonical
// keys ("po_number"), display labels ("numero_facture") or ERP model
// fields ("price_unit"), and numeric values arrive as strings or
// numbers. MapDocument absorbs all of that here so every downstream
// consumer sees one canonical shape.

// MapDocument normalizes a raw extraction payload into a Document.
// Totals are always recomputed from the mapped lines, never copied
// from the payload.
func MapDocument(raw map[string]any) *document.Document {
	doc := &document.Document{
		Number:       pickString(raw, "number", "document_number", "invoice_number", "po_number", "so_number", "order_number", "numero_facture"),
		Date:         pickString(raw, "date", "invoice_date", "po_date", "so_date", "date_order"),
		ExpectedDate: pickString(raw, "expected_date", "delivery_date", "date_planned"),
		PaymentTerms: pickString(raw, "payment_terms", "payment_term", "conditions_paiement"),
		Reference:    pickString(raw, "reference", "reference_supplier", "reference_customer", "ref"),
		Vendor:       pickParty(raw, "vendor", "fournisseur", "supplier", "vendor_address"),
		Customer:     pickParty(raw, "customer", "client", "company", "company_address"),
		Shipping:     pickParty(raw, "shipping_address", "delivery_address", "adresse_livraison"),
		Lines:        pickLines(raw),
	}
	doc.Totals = document.ComputeTotals(doc.Lines)
	return doc
}

func pickLines(raw map[string]any) []document.LineItem {
	v := pick(raw, "lines", "line_items", "items", "order_lines", "invoice_lines")
	entries, ok := v.([]any)
	if !ok {
		return []document.LineItem{}
	}

	lines := make([]document.LineItem, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		line := document.LineItem{
			Name:         pickString(m, "name", "product", "label"),
			Description:  pickString(m, "description", "desc"),
			Quantity:     pickString(m, "quantity", "qty", "product_qty", "product_uom_qty"),
			UnitPrice:    pickString(m, "unit_price", "price_unit", "price"),
			TaxRate:      pickString(m, "tax_rate", "tax", "vat", "tax_percent"),
			ExpectedDate: pickString(m, "expected_date", "date_planned"),
		}
		if line.Name == "" {
			line.Name = line.Description
		}
		if line.Quantity == "" {
			line.Quantity = "1"
		}
		lines = append(lines, line)
	}
	return lines
}

func pickParty(raw map[string]any, keys ...string) document.Party {
	v := pick(raw, keys...)
	switch t := v.(type) {
	case map[string]any:
		return document.Party{
			Name:    pickString(t, "name", "company_name"),
			Street:  pickString(t, "street", "address", "street1"),
			City:    pickString(t, "city"),
			Country: pickString(t, "country"),
			Phone:   pickString(t, "phone", "tel"),
		}
	case string:
		// Some revisions answer with one flat address blob.
		return document.Party{Name: strings.TrimSpace(t)}
	}
	return document.Party{}
}

// pick returns the first present, non-empty value among keys.
func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func pickString(m map[string]any, keys ...string) string {
	return asString(pick(m, keys...))
}

// asString renders a JSON scalar as the string the user will edit.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return ""
}
