package document

import "strings"

// ComputeTotals derives the untaxed subtotal, tax amount and grand
// total from a line sequence. A blank quantity counts as 1, a blank
// price as 0. Only lines with a positive tax rate contribute tax.
func ComputeTotals(lines []LineItem) Totals {
	var t Totals
	for _, l := range lines {
		qty := 1.0
		if strings.TrimSpace(l.Quantity) != "" {
			qty = Normalize(l.Quantity)
		}
		price := Normalize(l.UnitPrice)

		lineTotal := qty * price
		t.Untaxed += lineTotal

		if rate := Normalize(l.TaxRate); rate > 0 {
			t.Tax += lineTotal * rate / 100
		}
	}
	t.Total = t.Untaxed + t.Tax
	return t
}
