package document

// Mode selects which business document a scan is interpreted as.
type Mode string

const (
	ModeInvoice       Mode = "invoice"
	ModePurchaseOrder Mode = "po"
	ModeSalesOrder    Mode = "so"
)

// ValidMode reports whether m names a document mode the extraction
// backend understands.
func ValidMode(m Mode) bool {
	switch m {
	case ModeInvoice, ModePurchaseOrder, ModeSalesOrder:
		return true
	}
	return false
}

// Party is one address block on a document (vendor, customer, or
// shipping destination). All fields are optional; absent fields stay
// empty strings.
type Party struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// LineItem is one row of a document. Quantity, unit price and tax rate
// are kept as the raw strings the user sees and edits; they are only
// normalized to numbers when totals are computed or the document is
// submitted.
type LineItem struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Quantity     string `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	TaxRate      string `json:"tax_rate,omitempty"`
	ExpectedDate string `json:"expected_date,omitempty"`
}

// Totals are derived from the line items and never authoritative;
// they are recomputed on every line change and again before submission.
type Totals struct {
	Untaxed float64 `json:"untaxed"`
	Tax     float64 `json:"tax"`
	Total   float64 `json:"total"`
}

// Document is the canonical editable form of an extracted invoice,
// purchase order or sales order. Downstream code depends only on this
// shape; the extraction response's inconsistent key names are mapped
// into it at the gateway boundary.
type Document struct {
	Number       string     `json:"number"`
	Date         string     `json:"date"`
	ExpectedDate string     `json:"expected_date,omitempty"`
	PaymentTerms string     `json:"payment_terms,omitempty"`
	Reference    string     `json:"reference,omitempty"`
	Vendor       Party      `json:"vendor"`
	Customer     Party      `json:"customer"`
	Shipping     Party      `json:"shipping_address"`
	Lines        []LineItem `json:"lines"`
	Totals       Totals     `json:"totals"`
}
