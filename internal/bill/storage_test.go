package bill

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var storage *LocalStorage

	BeforeEach(func() {
		var err error
		storage, err = NewLocalStorage(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			filename string
			saved    string
			err      error
		)

		BeforeEach(func() {
			filename = "key_facture.jpg"
		})

		JustBeforeEach(func() {
			saved, err = storage.Save(filename, []byte("receipt bytes"))
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the stored name", func() {
				Expect(saved).To(Equal("key_facture.jpg"))
			})

			It("should read back the same bytes", func() {
				data, getErr := storage.Get("key_facture.jpg")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("receipt bytes"))
			})
		})

		When("the name carries a path separator", func() {
			BeforeEach(func() {
				filename = "../escape.jpg"
			})

			It("returns an error", func() {
				Expect(err).To(MatchError(ContainSubstring("invalid storage filename")))
			})
		})
	})

	Describe("Get", func() {
		When("the file does not exist", func() {
			It("returns an error", func() {
				_, err := storage.Get("missing.jpg")
				Expect(err).To(HaveOccurred())
			})
		})

		When("the name carries a path separator", func() {
			It("returns an error", func() {
				_, err := storage.Get("../../etc/passwd")
				Expect(err).To(MatchError(ContainSubstring("invalid storage filename")))
			})
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			_, err := storage.Save("key_facture.jpg", []byte("x"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("removes the file", func() {
			Expect(storage.Delete("key_facture.jpg")).To(Succeed())
			_, err := storage.Get("key_facture.jpg")
			Expect(err).To(HaveOccurred())
		})
	})
})
