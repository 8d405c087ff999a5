package document

import "strings"

// The editor operations mutate one Document held by a single review
// session. Every mutation refreshes Totals so the caller always sees
// figures consistent with the current line sequence.

// SetField replaces a scalar field addressed by a root name
// ("number", "date") or a one-level party path ("vendor.city").
// Unknown paths are ignored.
func (d *Document) SetField(path, value string) {
	section, field, nested := strings.Cut(path, ".")
	if !nested {
		switch section {
		case "number":
			d.Number = value
		case "date":
			d.Date = value
		case "expected_date":
			d.ExpectedDate = value
		case "payment_terms":
			d.PaymentTerms = value
		case "reference":
			d.Reference = value
		}
		d.refreshTotals()
		return
	}

	var p *Party
	switch section {
	case "vendor":
		p = &d.Vendor
	case "customer", "company":
		p = &d.Customer
	case "shipping_address":
		p = &d.Shipping
	default:
		return
	}

	switch field {
	case "name":
		p.Name = value
	case "street":
		p.Street = value
	case "city":
		p.City = value
	case "country":
		p.Country = value
	case "phone":
		p.Phone = value
	}
	d.refreshTotals()
}

// SetLineField replaces one field of the line at index. An
// out-of-range index leaves the document untouched.
func (d *Document) SetLineField(index int, field, value string) {
	if index < 0 || index >= len(d.Lines) {
		return
	}
	l := &d.Lines[index]
	switch field {
	case "name":
		l.Name = value
	case "description":
		l.Description = value
	case "quantity":
		l.Quantity = value
	case "unit_price":
		l.UnitPrice = value
	case "tax_rate":
		l.TaxRate = value
	case "expected_date":
		l.ExpectedDate = value
	}
	d.refreshTotals()
}

// AddLine appends an empty line with quantity "1". Existing lines keep
// their positions.
func (d *Document) AddLine() {
	d.Lines = append(d.Lines, LineItem{Quantity: "1"})
	d.refreshTotals()
}

// RemoveLine removes the line at index; following lines shift down by
// one. Out-of-range indexes are ignored.
func (d *Document) RemoveLine(index int) {
	if index < 0 || index >= len(d.Lines) {
		return
	}
	d.Lines = append(d.Lines[:index], d.Lines[index+1:]...)
	d.refreshTotals()
}

func (d *Document) refreshTotals() {
	d.Totals = ComputeTotals(d.Lines)
}
