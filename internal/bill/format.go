package bill

import (
	"fmt"
	"time"
)

// frenchMonths are the abbreviated month labels shown on the bills page.
// juin and juillet share the same three-letter abbreviation.
var frenchMonths = [12]string{
	"Jan.", "Fév.", "Mar.", "Avr.", "Mai.", "Jui.",
	"Jui.", "Aoû.", "Sep.", "Oct.", "Nov.", "Déc.",
}

// FormatDate renders an ISO date ("2004-04-04") in the short French form
// shown on the bills page ("4 Avr. 04").
func FormatDate(iso string) (string, error) {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", iso, err)
	}
	return fmt.Sprintf("%d %s %02d", t.Day(), frenchMonths[t.Month()-1], t.Year()%100), nil
}

// FormatStatus renders a status as the label the employee sees. An unknown
// status falls through unchanged.
func FormatStatus(s Status) string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusRefused:
		return "Refused"
	}
	return string(s)
}
