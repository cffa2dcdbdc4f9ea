package bill

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileURLPrefix is the URL path under which stored receipts are served.
const FileURLPrefix = "/bills/file/"

// IDGenerator generates the persistence keys handed back by Create.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service is the store-side implementation of the Store contract, backed by
// a bill database and a receipt file storage.
type Service struct {
	db          DB
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with UUID keys and wall-clock time.
func NewService(db DB, storage Storage) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a Service with custom key and time sources for
// testing.
func NewServiceWithDeps(db DB, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	specialChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a receipt filename for storage, keeping the
// extension and truncating phone-generated long names.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = specialChars.ReplaceAllString(base, "")
	base = multiSpace.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	const maxLen = 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "justificatif"
	}

	return base + strings.ToLower(ext)
}

// List returns every stored bill.
func (s *Service) List(ctx context.Context) ([]*Bill, error) {
	bills, err := s.db.ListBills()
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	return bills, nil
}

// Create stores the uploaded receipt and opens a keyed stub record carrying
// the owner email and the file reference. The extension gate is enforced
// here as well as in the container, so an invalid file never reaches
// storage.
func (s *Service) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	if !ValidReceiptName(req.FileName) {
		return CreateResult{}, fmt.Errorf("unsupported receipt file type: %q", req.FileName)
	}

	key := s.idGenerator.Generate()
	now := s.timeSource.Now()

	stored, err := s.storage.Save(fmt.Sprintf("%s_%s", key, sanitizeFilename(req.FileName)), req.Data)
	if err != nil {
		return CreateResult{}, fmt.Errorf("saving receipt file: %w", err)
	}

	stub := &Bill{
		ID:        key,
		Email:     req.Email,
		FileURL:   FileURLPrefix + stored,
		FileName:  req.FileName,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.SaveBill(stub); err != nil {
		s.storage.Delete(stored)
		return CreateResult{}, fmt.Errorf("saving bill record: %w", err)
	}

	return CreateResult{FileURL: stub.FileURL, FileName: stub.FileName, Key: key}, nil
}

// Update merges the submitted form values into the record opened by Create
// and persists it. The file reference and owner email captured at upload
// time win over whatever the payload carries. Bills whose status has left
// pending are immutable.
func (s *Service) Update(ctx context.Context, b *Bill) (*Bill, error) {
	stub, err := s.db.GetBill(b.ID)
	if err != nil {
		return nil, fmt.Errorf("getting bill %s: %w", b.ID, err)
	}
	if stub.Status != StatusPending {
		return nil, fmt.Errorf("bill %s is %s and can no longer be changed", stub.ID, stub.Status)
	}

	stub.Type = b.Type
	stub.Name = b.Name
	stub.Date = b.Date
	stub.Amount = b.Amount
	stub.VAT = b.VAT
	stub.Pct = b.Pct
	stub.Commentary = b.Commentary
	stub.UpdatedAt = s.timeSource.Now()

	if err := stub.Validate(); err != nil {
		return nil, fmt.Errorf("validating bill: %w", err)
	}
	if err := s.db.SaveBill(stub); err != nil {
		return nil, fmt.Errorf("saving bill: %w", err)
	}
	return stub, nil
}

// ReceiptFile returns the stored receipt bytes and a content type derived
// from the stored name.
func (s *Service) ReceiptFile(name string) ([]byte, string, error) {
	data, err := s.storage.Get(name)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	}
	return data, contentType, nil
}
