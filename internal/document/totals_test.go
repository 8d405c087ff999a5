package document

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComputeTotals", func() {
	var (
		lines  []LineItem
		totals Totals
	)

	JustBeforeEach(func() {
		totals = ComputeTotals(lines)
	})

	When("a line carries a tax rate", func() {
		BeforeEach(func() {
			lines = []LineItem{{Quantity: "2", UnitPrice: "100", TaxRate: "20"}}
		})

		It("accumulates the untaxed subtotal", func() {
			Expect(totals.Untaxed).To(Equal(200.0))
		})

		It("accumulates the tax amount", func() {
			Expect(totals.Tax).To(Equal(40.0))
		})

		It("sums untaxed and tax into the total", func() {
			Expect(totals.Total).To(Equal(240.0))
		})
	})

	When("no line carries a tax rate", func() {
		BeforeEach(func() {
			lines = []LineItem{
				{Quantity: "3", UnitPrice: "10"},
				{Quantity: "1", UnitPrice: "5.50", TaxRate: "0"},
			}
		})

		It("reports zero tax", func() {
			Expect(totals.Tax).To(Equal(0.0))
		})

		It("makes the total equal the untaxed subtotal", func() {
			Expect(totals.Total).To(Equal(totals.Untaxed))
			Expect(totals.Untaxed).To(Equal(35.50))
		})
	})

	When("quantities and prices use mixed locale formats", func() {
		BeforeEach(func() {
			lines = []LineItem{
				{Quantity: "1", UnitPrice: "4.000,00"},
				{Quantity: "2", UnitPrice: "1,000.00"},
			}
		})

		It("normalizes each value before multiplying", func() {
			Expect(totals.Untaxed).To(Equal(6000.0))
		})
	})

	When("a line has a blank quantity", func() {
		BeforeEach(func() {
			lines = []LineItem{{UnitPrice: "25"}}
		})

		It("counts the quantity as one", func() {
			Expect(totals.Untaxed).To(Equal(25.0))
		})
	})

	When("the line sequence is empty", func() {
		BeforeEach(func() {
			lines = nil
		})

		It("returns all zeros", func() {
			Expect(totals).To(Equal(Totals{}))
		})
	})
})
