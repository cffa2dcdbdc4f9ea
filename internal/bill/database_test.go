package bill

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveBill", func() {
		var (
			b   *Bill
			err error
		)

		BeforeEach(func() {
			b = &Bill{
				ID:        "test-id",
				Email:     "jane@doe",
				Type:      "Transports",
				Name:      "Vol",
				Date:      "2004-04-04",
				Amount:    348,
				Pct:       20,
				FileName:  "facture.jpg",
				Status:    StatusPending,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveBill(b)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should round-trip the bill", func() {
				saved, getErr := db.GetBill("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Email).To(Equal("jane@doe"))
				Expect(saved.Date).To(Equal("2004-04-04"))
				Expect(saved.Status).To(Equal(StatusPending))
			})
		})

		When("saving over an existing ID", func() {
			BeforeEach(func() {
				Expect(db.SaveBill(b)).To(Succeed())
				b.Name = "Vol retour"
			})

			It("overwrites the record", func() {
				saved, getErr := db.GetBill("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Name).To(Equal("Vol retour"))
			})
		})
	})

	Describe("GetBill", func() {
		When("the bill does not exist", func() {
			It("returns an error", func() {
				_, err := db.GetBill("nonexistent")
				Expect(err).To(MatchError(ContainSubstring("not found")))
			})
		})
	})

	Describe("ListBills", func() {
		When("no bills exist", func() {
			It("returns an empty, non-nil slice", func() {
				bills, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(bills).NotTo(BeNil())
				Expect(bills).To(BeEmpty())
			})
		})

		When("bills exist", func() {
			BeforeEach(func() {
				Expect(db.SaveBill(&Bill{ID: "id1", Name: "a"})).To(Succeed())
				Expect(db.SaveBill(&Bill{ID: "id2", Name: "b"})).To(Succeed())
			})

			It("returns all of them", func() {
				bills, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(bills).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteBill", func() {
		BeforeEach(func() {
			Expect(db.SaveBill(&Bill{ID: "test-id"})).To(Succeed())
		})

		It("removes the bill", func() {
			Expect(db.DeleteBill("test-id")).To(Succeed())
			_, err := db.GetBill("test-id")
			Expect(err).To(HaveOccurred())
		})
	})
})
