package bill

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockDB is a mock implementation of DB
type mockDB struct {
	bills     map[string]*Bill
	saveErr   error
	getErr    error
	listErr   error
	deleteErr error
}

func newMockDB() *mockDB {
	return &mockDB{bills: make(map[string]*Bill)}
}

func (m *mockDB) SaveBill(b *Bill) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	saved := *b
	m.bills[b.ID] = &saved
	return nil
}

func (m *mockDB) GetBill(id string) (*Bill, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	b, ok := m.bills[id]
	if !ok {
		return nil, errors.New("bill not found")
	}
	found := *b
	return &found, nil
}

func (m *mockDB) ListBills() ([]*Bill, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	bills := make([]*Bill, 0, len(m.bills))
	for _, b := range m.bills {
		bills = append(bills, b)
	}
	return bills, nil
}

func (m *mockDB) DeleteBill(id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.bills[id]; !ok {
		return errors.New("bill not found")
	}
	delete(m.bills, id)
	return nil
}

func (m *mockDB) Close() error {
	return nil
}

// mockStorage is a mock implementation of Storage
type mockStorage struct {
	files     map[string][]byte
	saveErr   error
	getErr    error
	deleteErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: make(map[string][]byte)}
}

func (m *mockStorage) Save(filename string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.files[filename] = data
	return filename, nil
}

func (m *mockStorage) Get(name string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.files[name]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (m *mockStorage) Delete(name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.files[name]; !ok {
		return errors.New("file not found")
	}
	delete(m.files, name)
	return nil
}

// mockIDGenerator is a mock implementation of IDGenerator
type mockIDGenerator struct {
	id string
}

func (m *mockIDGenerator) Generate() string {
	return m.id
}

// mockTimeSource is a mock implementation of TimeSource
type mockTimeSource struct {
	now time.Time
}

func (m *mockTimeSource) Now() time.Time {
	return m.now
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		db      *mockDB
		storage *mockStorage
		idGen   *mockIDGenerator
		timeSrc *mockTimeSource
		service *Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = newMockDB()
		storage = newMockStorage()
		idGen = &mockIDGenerator{id: "key-123"}
		timeSrc = &mockTimeSource{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
		service = NewServiceWithDeps(db, storage, idGen, timeSrc)
	})

	Describe("Create", func() {
		var (
			req    CreateRequest
			result CreateResult
			err    error
		)

		BeforeEach(func() {
			req = CreateRequest{
				FileName:    "facture libre 2018.jpg",
				Data:        []byte("fake image data"),
				ContentType: "image/jpeg",
				Email:       "jane@doe",
			}
		})

		JustBeforeEach(func() {
			result, err = service.Create(ctx, req)
		})

		When("the upload succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the persistence key", func() {
				Expect(result.Key).To(Equal("key-123"))
			})

			It("should return the original file name", func() {
				Expect(result.FileName).To(Equal("facture libre 2018.jpg"))
			})

			It("should return a file URL under the serving prefix", func() {
				Expect(result.FileURL).To(Equal("/bills/file/key-123_facture libre 2018.jpg"))
			})

			It("should save the file under a key-prefixed name", func() {
				Expect(storage.files).To(HaveKey("key-123_facture libre 2018.jpg"))
			})

			It("should open a pending stub record with the owner email", func() {
				stub, getErr := db.GetBill("key-123")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(stub.Email).To(Equal("jane@doe"))
				Expect(stub.Status).To(Equal(StatusPending))
				Expect(stub.FileName).To(Equal("facture libre 2018.jpg"))
			})

			It("should stamp creation time from the time source", func() {
				stub, _ := db.GetBill("key-123")
				Expect(stub.CreatedAt).To(Equal(timeSrc.now))
			})
		})

		When("the extension is not an accepted image", func() {
			BeforeEach(func() {
				req.FileName = "facture.pdf"
			})

			It("returns an error", func() {
				Expect(err).To(MatchError(ContainSubstring("facture.pdf")))
			})

			It("does not touch storage", func() {
				Expect(storage.files).To(BeEmpty())
			})
		})

		When("storage save fails", func() {
			var setupErr error

			BeforeEach(func() {
				setupErr = errors.New("storage error")
				storage.saveErr = setupErr
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(setupErr))
			})
		})

		When("the database save fails", func() {
			var setupErr error

			BeforeEach(func() {
				setupErr = errors.New("database error")
				db.saveErr = setupErr
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(setupErr))
			})

			It("cleans up the saved file", func() {
				Expect(storage.files).To(BeEmpty())
			})
		})
	})

	Describe("Update", func() {
		var (
			payload *Bill
			updated *Bill
			err     error
		)

		BeforeEach(func() {
			db.bills["key-123"] = &Bill{
				ID:        "key-123",
				Email:     "jane@doe",
				FileURL:   "/bills/file/key-123_facture.jpg",
				FileName:  "facture.jpg",
				Status:    StatusPending,
				CreatedAt: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
			}
			payload = &Bill{
				ID:         "key-123",
				Email:      "jane@doe",
				Type:       "Transports",
				Name:       "Vol Paris Londres",
				Date:       "2004-04-04",
				Amount:     348,
				VAT:        70,
				Pct:        20,
				Commentary: "séminaire billed",
				FileName:   "facture.jpg",
			}
		})

		JustBeforeEach(func() {
			updated, err = service.Update(ctx, payload)
		})

		When("the record was opened by a prior upload", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should merge the form fields into the record", func() {
				Expect(updated.Type).To(Equal("Transports"))
				Expect(updated.Name).To(Equal("Vol Paris Londres"))
				Expect(updated.Amount).To(Equal(348.0))
				Expect(updated.Pct).To(Equal(20))
			})

			It("should keep the file reference captured at upload time", func() {
				Expect(updated.FileURL).To(Equal("/bills/file/key-123_facture.jpg"))
				Expect(updated.FileName).To(Equal("facture.jpg"))
			})

			It("should stay pending", func() {
				Expect(updated.Status).To(Equal(StatusPending))
			})

			It("should stamp the update time from the time source", func() {
				Expect(updated.UpdatedAt).To(Equal(timeSrc.now))
			})

			It("should persist the merged record", func() {
				saved, getErr := db.GetBill("key-123")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Name).To(Equal("Vol Paris Londres"))
			})
		})

		When("the record does not exist", func() {
			BeforeEach(func() {
				payload.ID = "nonexistent"
			})

			It("returns an error", func() {
				Expect(err).To(HaveOccurred())
			})
		})

		When("the bill already left pending", func() {
			BeforeEach(func() {
				db.bills["key-123"].Status = StatusAccepted
			})

			It("refuses the update", func() {
				Expect(err).To(MatchError(ContainSubstring("no longer be changed")))
			})
		})

		When("a required field is missing", func() {
			BeforeEach(func() {
				payload.Name = ""
			})

			It("returns a validation error and does not persist", func() {
				Expect(err).To(HaveOccurred())
				saved, _ := db.GetBill("key-123")
				Expect(saved.Name).To(BeEmpty())
				Expect(saved.Type).To(BeEmpty())
			})
		})
	})

	Describe("List", func() {
		var (
			bills []*Bill
			err   error
		)

		JustBeforeEach(func() {
			bills, err = service.List(ctx)
		})

		When("bills exist", func() {
			BeforeEach(func() {
				db.bills["id1"] = &Bill{ID: "id1"}
				db.bills["id2"] = &Bill{ID: "id2"}
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all bills", func() {
				Expect(bills).To(HaveLen(2))
			})
		})

		When("the database fails", func() {
			var setupErr error

			BeforeEach(func() {
				setupErr = errors.New("Erreur 500")
				db.listErr = setupErr
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(setupErr))
			})
		})
	})

	Describe("ReceiptFile", func() {
		var (
			data        []byte
			contentType string
			err         error
		)

		JustBeforeEach(func() {
			data, contentType, err = service.ReceiptFile("key-123_facture.jpg")
		})

		When("the file exists", func() {
			BeforeEach(func() {
				storage.files["key-123_facture.jpg"] = []byte("file data")
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the file data", func() {
				Expect(string(data)).To(Equal("file data"))
			})

			It("should derive the content type from the name", func() {
				Expect(contentType).To(Equal("image/jpeg"))
			})
		})

		When("the file does not exist", func() {
			It("returns an error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})
})

var _ = Describe("sanitizeFilename", func() {
	DescribeTable("cleanup",
		func(in, out string) {
			Expect(sanitizeFilename(in)).To(Equal(out))
		},
		Entry("plain name", "facture.jpg", "facture.jpg"),
		Entry("special characters stripped", "fac!ture(1).png", "facture1.png"),
		Entry("spaces collapsed", "note   de   frais.jpeg", "note de frais.jpeg"),
		Entry("uppercase extension lowered", "IMG_0001.JPG", "IMG_0001.jpg"),
		Entry("empty base falls back", "???.png", "justificatif.png"),
	)

	It("truncates very long names", func() {
		long := ""
		for i := 0; i < 20; i++ {
			long += "abcdefghij"
		}
		got := sanitizeFilename(long + ".jpg")
		Expect(len(got)).To(Equal(50 + len(".jpg")))
	})
})
