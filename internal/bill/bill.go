package bill

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Status is the lifecycle tag of a bill. A bill is created pending and only
// the back office moves it elsewhere; this service never transitions it.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// ExpenseTypes are the allowed bill categories, in the order the form
// presents them.
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Équipement et matériel",
	"Fournitures de bureau",
}

// Bill represents one expense report.
type Bill struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Date       string    `json:"date"` // ISO form, e.g. "2004-04-04"
	Amount     float64   `json:"amount"`
	VAT        float64   `json:"vat,omitempty"`
	Pct        int       `json:"pct"`
	Commentary string    `json:"commentary,omitempty"`
	FileURL    string    `json:"file_url,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// allowedExtensions are the receipt file types accepted for upload.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidReceiptName reports whether a receipt filename carries one of the
// allowed extensions (jpg, jpeg, png). The check is case-insensitive.
func ValidReceiptName(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Validate checks the fields a bill must carry before it may be persisted.
func (b *Bill) Validate() error {
	switch {
	case b.Email == "":
		return fmt.Errorf("bill is missing an owner email")
	case b.Type == "":
		return fmt.Errorf("bill is missing an expense type")
	case b.Name == "":
		return fmt.Errorf("bill is missing a name")
	case b.Date == "":
		return fmt.Errorf("bill is missing a date")
	case b.Amount < 0:
		return fmt.Errorf("bill amount must not be negative: %v", b.Amount)
	case b.Pct < 0 || b.Pct > 100:
		return fmt.Errorf("bill pct must be between 0 and 100: %d", b.Pct)
	case !ValidReceiptName(b.FileName):
		return fmt.Errorf("bill receipt filename is not an accepted image: %q", b.FileName)
	}
	return nil
}
