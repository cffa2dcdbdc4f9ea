// Package view renders the employee pages. The page types hold the state
// the containers write and turn it into HTML on demand; everything the
// tests and the containers rely on is addressed by data-testid.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"bill-tracker/internal/bill"
	"bill-tracker/internal/bills"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// BillsPage implements bills.View. The router renders its HTML once the
// container has written its state.
type BillsPage struct {
	mode    string // "loading", "data" or "error"
	rows    []bills.Row
	errMsg  string
	preview string // receipt URL shown in the modal, "" when hidden
}

// NewBillsPage returns a page in the loading state.
func NewBillsPage() *BillsPage {
	return &BillsPage{mode: "loading"}
}

// RenderLoading puts the page back in the loading state.
func (p *BillsPage) RenderLoading() {
	p.mode = "loading"
}

// RenderBills shows the formatted table rows.
func (p *BillsPage) RenderBills(rows []bills.Row) {
	p.mode = "data"
	p.rows = rows
}

// RenderError shows the error page with the given message.
func (p *BillsPage) RenderError(message string) {
	p.mode = "error"
	p.errMsg = message
}

// ShowPreview opens the receipt modal on the given URL. Showing the same
// URL again keeps the single modal visible; nothing accumulates.
func (p *BillsPage) ShowPreview(fileURL string) {
	p.preview = fileURL
}

// HTML renders the page in its current state.
func (p *BillsPage) HTML() (string, error) {
	return execute("bills.html.tmpl", struct {
		Mode    string
		Rows    []bills.Row
		Error   string
		Preview string
	}{p.mode, p.rows, p.errMsg, p.preview})
}

// NewBillPage implements newbill.View: it carries the posted form values
// the container reads and the field state it writes back.
type NewBillPage struct {
	values    url.Values
	fileName  string
	fileError bool
	errMsg    string
}

// NewNewBillPage returns an empty form page.
func NewNewBillPage() *NewBillPage {
	return &NewBillPage{values: url.Values{}}
}

// SetValues replaces the form field values, e.g. from a POST body.
func (p *NewBillPage) SetValues(values url.Values) {
	p.values = values
}

// FieldValue reads a form field by its identifier.
func (p *NewBillPage) FieldValue(name string) string {
	return p.values.Get(name)
}

// SetFile writes the retained file name back to the file input.
func (p *NewBillPage) SetFile(name string) {
	p.fileName = name
}

// ClearFile resets the file input value.
func (p *NewBillPage) ClearFile() {
	p.fileName = ""
}

// FileName reads the file input value back.
func (p *NewBillPage) FileName() string {
	return p.fileName
}

// SetFileError toggles the error indicator on the file field's label.
func (p *NewBillPage) SetFileError(on bool) {
	p.fileError = on
}

// RenderError shows a submission failure message on the form.
func (p *NewBillPage) RenderError(message string) {
	p.errMsg = message
}

// HTML renders the form in its current state.
func (p *NewBillPage) HTML() (string, error) {
	return execute("newbill.html.tmpl", struct {
		ExpenseTypes []string
		Values       url.Values
		FileName     string
		FileError    bool
		Error        string
	}{bill.ExpenseTypes, p.values, p.fileName, p.fileError, p.errMsg})
}

// LoginPage renders the login form.
type LoginPage struct {
	errMsg string
}

// NewLoginPage returns an empty login page.
func NewLoginPage() *LoginPage {
	return &LoginPage{}
}

// RenderError shows a login failure message.
func (p *LoginPage) RenderError(message string) {
	p.errMsg = message
}

// HTML renders the login page.
func (p *LoginPage) HTML() (string, error) {
	return execute("login.html.tmpl", struct {
		Error string
	}{p.errMsg})
}
