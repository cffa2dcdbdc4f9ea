// Package bills holds the container behind the "Mes notes de frais" page:
// it fetches the bill list, formats and orders it for display, and handles
// the user actions on the rendered table.
package bills

import (
	"context"
	"log/slog"
	"sort"

	"bill-tracker/internal/bill"
	"bill-tracker/internal/routes"
	"bill-tracker/internal/session"
)

// Row is one formatted line of the bills table.
type Row struct {
	bill.Bill
	DisplayDate   string
	DisplayStatus string
}

// View is the rendering surface the container writes to.
type View interface {
	RenderLoading()
	RenderBills(rows []Row)
	RenderError(message string)

	// ShowPreview opens the receipt preview surface on the given file URL.
	// Re-showing the same URL must be a no-op beyond keeping it visible.
	ShowPreview(fileURL string)
}

// Params carries the collaborators injected into a container.
type Params struct {
	View     View
	Navigate routes.Navigate
	Store    bill.Store // nil in isolated configurations
	Session  session.Accessor
}

// Container orchestrates the bills-list page.
type Container struct {
	view     View
	navigate routes.Navigate
	store    bill.Store
	session  session.Accessor
}

// New builds the container and, when a store handle is present, immediately
// fetches and renders the list.
func New(ctx context.Context, p Params) *Container {
	c := &Container{
		view:     p.View,
		navigate: p.Navigate,
		store:    p.Store,
		session:  p.Session,
	}
	if c.store != nil {
		c.load(ctx)
	}
	return c
}

func (c *Container) load(ctx context.Context) {
	c.render(func(v View) { v.RenderLoading() })

	list, err := c.store.List(ctx)
	if err != nil {
		// The rejection message is shown verbatim ("Erreur 404", ...).
		// No automatic retry.
		c.render(func(v View) { v.RenderError(err.Error()) })
		return
	}
	c.render(func(v View) { v.RenderBills(Format(list)) })
}

// render guards view writes so a store response landing on a detached view
// is a no-op instead of a panic.
func (c *Container) render(fn func(View)) {
	if c.view == nil {
		return
	}
	fn(c.view)
}

// Detach disconnects the view, e.g. when the user navigated away before a
// store call settled.
func (c *Container) Detach() {
	c.view = nil
}

// HandleClickIconEye opens the receipt preview for a clicked table icon.
// Repeated clicks on the same icon re-open the same content.
func (c *Container) HandleClickIconEye(fileURL string) {
	c.render(func(v View) { v.ShowPreview(fileURL) })
}

// HandleClickNewBill sends the employee to the new-bill form. No store
// call is involved.
func (c *Container) HandleClickNewBill() {
	c.navigate(routes.NewBill)
}

// Format orders bills most recent first (lexical comparison on the ISO
// date, stable so equal dates keep their insertion order) and formats date
// and status for display. A record that fails to format keeps its raw
// value; the anomaly is logged, never surfaced as a page error.
func Format(list []*bill.Bill) []Row {
	ordered := make([]*bill.Bill, len(list))
	copy(ordered, list)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date > ordered[j].Date
	})

	rows := make([]Row, 0, len(ordered))
	for _, b := range ordered {
		row := Row{
			Bill:          *b,
			DisplayDate:   b.Date,
			DisplayStatus: bill.FormatStatus(b.Status),
		}
		if d, err := bill.FormatDate(b.Date); err == nil {
			row.DisplayDate = d
		} else {
			slog.Warn("Bill date does not format, keeping raw value",
				"bill", b.ID,
				"date", b.Date,
				"error", err,
			)
		}
		rows = append(rows, row)
	}
	return rows
}
