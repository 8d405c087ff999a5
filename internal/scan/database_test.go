package scan

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"docscan/internal/document"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveRecord", func() {
		var (
			record *ScanRecord
			err    error
		)

		BeforeEach(func() {
			record = &ScanRecord{
				ID:          "scan-1",
				Type:        "invoice",
				Name:        "facture mars",
				ImagePath:   "scan-1_facture mars.jpg",
				ContentType: "image/jpeg",
				Date:        time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveRecord(record)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the record to the database", func() {
				saved, getErr := db.GetRecord("scan-1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("scan-1"))
				Expect(saved.Type).To(Equal("invoice"))
				Expect(saved.Date).To(BeTemporally("==", record.Date))
			})
		})
	})

	Describe("GetRecord", func() {
		When("the record does not exist", func() {
			It("returns ErrNotFound", func() {
				_, err := db.GetRecord("nonexistent")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})
	})

	Describe("ListRecords", func() {
		var (
			records []*ScanRecord
			err     error
		)

		JustBeforeEach(func() {
			records, err = db.ListRecords()
		})

		When("records exist", func() {
			BeforeEach(func() {
				Expect(db.SaveRecord(&ScanRecord{ID: "id1", Type: "invoice"})).NotTo(HaveOccurred())
				Expect(db.SaveRecord(&ScanRecord{ID: "id2", Type: "photo"})).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all records", func() {
				Expect(records).To(HaveLen(2))
			})
		})

		When("no records exist", func() {
			It("should return an empty list", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(BeEmpty())
			})
		})
	})

	Describe("DeleteRecord", func() {
		When("the record exists", func() {
			BeforeEach(func() {
				Expect(db.SaveRecord(&ScanRecord{ID: "scan-1"})).NotTo(HaveOccurred())
			})

			It("removes the record", func() {
				Expect(db.DeleteRecord("scan-1")).To(Succeed())
				_, getErr := db.GetRecord("scan-1")
				Expect(getErr).To(MatchError(ErrNotFound))
			})
		})

		When("the record does not exist", func() {
			It("should not return an error", func() {
				Expect(db.DeleteRecord("nonexistent")).To(Succeed())
			})
		})
	})

	Describe("drafts", func() {
		var draft *Draft

		BeforeEach(func() {
			draft = &Draft{
				ID:     "draft-1",
				Mode:   document.ModeInvoice,
				ScanID: "scan-1",
				Text:   "FACTURE F-001",
				Document: document.Document{
					Number: "F-001",
					Lines: []document.LineItem{
						{Name: "Widget", Quantity: "2", UnitPrice: "100", TaxRate: "20"},
					},
					Totals: document.Totals{Untaxed: 200, Tax: 40, Total: 240},
				},
				CreatedAt: time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
			}
		})

		It("round-trips a draft with its document", func() {
			Expect(db.SaveDraft(draft)).To(Succeed())

			saved, err := db.GetDraft("draft-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Mode).To(Equal(document.ModeInvoice))
			Expect(saved.Document.Number).To(Equal("F-001"))
			Expect(saved.Document.Lines).To(HaveLen(1))
			Expect(saved.Document.Totals.Total).To(Equal(240.0))
		})

		It("overwrites an edited draft under the same ID", func() {
			Expect(db.SaveDraft(draft)).To(Succeed())
			draft.Document.Number = "F-002"
			Expect(db.SaveDraft(draft)).To(Succeed())

			saved, err := db.GetDraft("draft-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Document.Number).To(Equal("F-002"))
		})

		It("returns ErrNotFound for a missing draft", func() {
			_, err := db.GetDraft("nonexistent")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("deletes a draft", func() {
			Expect(db.SaveDraft(draft)).To(Succeed())
			Expect(db.DeleteDraft("draft-1")).To(Succeed())
			_, err := db.GetDraft("draft-1")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			Expect(db.Close()).To(Succeed())
		})
	})
})
