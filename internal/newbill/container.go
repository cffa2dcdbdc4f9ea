// Package newbill holds the container behind the "Envoyer une note de
// frais" form: receipt validation and upload, field collection, submission
// and post-submit navigation.
package newbill

import (
	"context"
	"log/slog"
	"strconv"

	"bill-tracker/internal/bill"
	"bill-tracker/internal/routes"
	"bill-tracker/internal/session"
)

// Form field identifiers. These are the stable DOM surface shared with the
// view templates and the tests.
const (
	FieldType       = "expense-type"
	FieldName       = "expense-name"
	FieldDate       = "datepicker"
	FieldAmount     = "amount"
	FieldVAT        = "vat"
	FieldPct        = "pct"
	FieldCommentary = "commentary"
	FieldFile       = "file"
)

// SelectedFile is the receipt the employee picked in the file input.
type SelectedFile struct {
	Name        string
	Data        []byte
	ContentType string
}

// View is the form surface the container reads and writes.
type View interface {
	// FieldValue reads a form field by its identifier.
	FieldValue(name string) string

	// SetFile writes the retained file name back to the file input.
	SetFile(name string)

	// ClearFile resets the file input value.
	ClearFile()

	// SetFileError toggles the error indicator on the file field's label.
	SetFileError(on bool)

	// RenderError shows a submission failure message on the form.
	RenderError(message string)
}

// Params carries the collaborators injected into a container.
type Params struct {
	View     View
	Navigate routes.Navigate
	Store    bill.Store // nil in isolated configurations
	Session  session.Accessor
}

// Container orchestrates one in-progress bill draft. It is discarded, draft
// included, when the user navigates away.
type Container struct {
	view     View
	navigate routes.Navigate
	store    bill.Store
	session  session.Accessor
	draft    draft
}

// New binds the empty form. The draft's file reference stays unset until a
// file passes the extension gate.
func New(p Params) *Container {
	return &Container{
		view:     p.View,
		navigate: p.Navigate,
		store:    p.Store,
		session:  p.Session,
	}
}

// State exposes the draft state for the router and the tests.
func (c *Container) State() State {
	return c.draft.state
}

// HandleChangeFile gates the selected receipt on its extension and, when a
// store handle is present, uploads it. An invalid extension clears the file
// input and flags the field; no store call is made. A failed upload is
// logged and left for the user to retry by re-selecting a file.
func (c *Container) HandleChangeFile(ctx context.Context, file SelectedFile) {
	if c.draft.state == Submitted {
		return
	}

	if !bill.ValidReceiptName(file.Name) {
		c.render(func(v View) {
			v.ClearFile()
			v.SetFileError(true)
		})
		return
	}

	c.render(func(v View) {
		v.SetFileError(false)
		v.SetFile(file.Name)
	})

	if c.store == nil {
		// Isolated configuration: the extension check alone validates
		// the draft.
		c.draft.fileName = file.Name
		c.markValidated()
		return
	}

	res, err := c.store.Create(ctx, bill.CreateRequest{
		FileName:    file.Name,
		Data:        file.Data,
		ContentType: file.ContentType,
		Email:       c.email(),
	})
	if err != nil {
		slog.Error("Receipt upload failed", "file", file.Name, "error", err)
		return
	}

	c.draft.fileURL = res.FileURL
	c.draft.fileName = res.FileName
	c.draft.key = res.Key
	c.markValidated()
}

// markValidated moves the draft to FileValidated. Re-selecting a file on an
// already validated draft just refreshes the references.
func (c *Container) markValidated() {
	if c.draft.state != Empty {
		return
	}
	if err := c.draft.move(FileValidated); err != nil {
		slog.Error("Draft transition rejected", "error", err)
	}
}

// HandleSubmit builds the candidate bill from the form values and the
// session email and sends it to the store. Required-field validation is the
// surrounding form's concern; numbers are still parsed here, a blank VAT
// becoming zero. A submit without a validated receipt is rejected: the file
// field is flagged and nothing is sent.
func (c *Container) HandleSubmit(ctx context.Context) {
	v := c.view
	if v == nil {
		return
	}
	if c.draft.state != FileValidated {
		slog.Warn("Submit rejected without a validated receipt", "state", c.draft.state.String())
		v.SetFileError(true)
		return
	}

	candidate := &bill.Bill{
		ID:         c.draft.key,
		Email:      c.email(),
		Type:       v.FieldValue(FieldType),
		Name:       v.FieldValue(FieldName),
		Date:       v.FieldValue(FieldDate),
		Amount:     parseFloat(FieldAmount, v.FieldValue(FieldAmount)),
		VAT:        parseFloat(FieldVAT, v.FieldValue(FieldVAT)),
		Pct:        parseInt(FieldPct, v.FieldValue(FieldPct)),
		Commentary: v.FieldValue(FieldCommentary),
		FileURL:    c.draft.fileURL,
		FileName:   c.draft.fileName,
		Status:     bill.StatusPending,
	}

	if c.store != nil {
		if _, err := c.store.Update(ctx, candidate); err != nil {
			slog.Error("Bill submission failed", "bill", candidate.ID, "error", err)
			c.render(func(v View) { v.RenderError(err.Error()) })
			return
		}
	}

	if err := c.draft.move(Submitted); err != nil {
		slog.Error("Draft transition rejected", "error", err)
	}
	c.navigate(routes.Bills)
}

// Detach disconnects the view; late store responses and replayed events
// become no-ops.
func (c *Container) Detach() {
	c.view = nil
}

func (c *Container) render(fn func(View)) {
	if c.view == nil {
		return
	}
	fn(c.view)
}

func (c *Container) email() string {
	if u := c.session.User(); u != nil {
		return u.Email
	}
	return ""
}

// parseFloat reads a numeric form value. Blank is zero; an unparseable
// value is logged and also becomes zero.
func parseFloat(field, s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		slog.Warn("Non-numeric form value, using zero", "field", field, "value", s)
		return 0
	}
	return f
}

func parseInt(field, s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("Non-numeric form value, using zero", "field", field, "value", s)
		return 0
	}
	return n
}
