package server

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"bill-tracker/internal/bills"
	"bill-tracker/internal/newbill"
	"bill-tracker/internal/routes"
	"bill-tracker/internal/session"
	"bill-tracker/internal/view"
)

// maxUploadSize bounds receipt uploads; phone photos stay well under this.
const maxUploadSize = int64(10 << 20)

func writeHTML(w http.ResponseWriter, html string, err error) {
	if err != nil {
		slog.Error("Error rendering page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

// handleLogin serves the login page, or sends a connected employee straight
// to the bill list.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.currentUser(r) != nil {
		http.Redirect(w, r, routes.Bills, http.StatusSeeOther)
		return
	}
	html, err := view.NewLoginPage().HTML()
	writeHTML(w, html, err)
}

// handleLoginPost establishes the employee identity and sets the session
// cookie. Credential checks live in the identity back office, outside this
// service.
func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	if email == "" {
		page := view.NewLoginPage()
		page.RenderError("Veuillez renseigner un email")
		html, err := page.HTML()
		writeHTML(w, html, err)
		return
	}

	token, err := s.sessions.Generate(session.User{Type: "Employee", Email: email})
	if err != nil {
		slog.Error("Error issuing session token", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	http.Redirect(w, r, routes.Bills, http.StatusSeeOther)
}

// handleLogout clears the session and discards any in-progress draft.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if u := s.currentUser(r); u != nil {
		s.dropDraft(u.Email)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, routes.Login, http.StatusSeeOther)
}

// handleBills builds the Bills container for this request and renders
// whatever it wrote: the ordered table, or the error page when the store
// rejected the list call. A preview query opens the receipt modal.
func (s *Server) handleBills(w http.ResponseWriter, r *http.Request, u *session.User) {
	// Landing on the list discards any in-progress draft.
	s.dropDraft(u.Email)

	page := view.NewBillsPage()
	c := bills.New(r.Context(), bills.Params{
		View:     page,
		Navigate: func(path string) { http.Redirect(w, r, path, http.StatusSeeOther) },
		Store:    s.store,
		Session:  session.Static{Current: u},
	})

	if preview := r.URL.Query().Get("preview"); preview != "" {
		c.HandleClickIconEye(preview)
	}

	html, err := page.HTML()
	writeHTML(w, html, err)
}

// handleNewBillForm renders the employee's in-progress form.
func (s *Server) handleNewBillForm(w http.ResponseWriter, r *http.Request, u *session.User) {
	e := s.draftFor(u)
	e.mu.Lock()
	defer e.mu.Unlock()
	html, err := e.page.HTML()
	writeHTML(w, html, err)
}

// handleUploadReceipt passes the selected file through the container's
// extension gate and upload, then returns to the form. The form re-renders
// with either the retained file name or the field error indicator.
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request, u *session.User) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}
	f, header, err := r.FormFile(newbill.FieldFile)
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		http.Error(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".png":
			contentType = "image/png"
		default:
			contentType = "application/octet-stream"
		}
	}

	e := s.draftFor(u)
	e.mu.Lock()
	e.nav = func(string) {}
	e.ctr.HandleChangeFile(r.Context(), newbill.SelectedFile{
		Name:        header.Filename,
		Data:        data,
		ContentType: contentType,
	})
	e.mu.Unlock()

	http.Redirect(w, r, routes.NewBill, http.StatusSeeOther)
}

// handleSubmitBill hands the posted field values to the container. When the
// container navigates, the draft is done and dropped; otherwise the form is
// re-rendered carrying whatever error state the container set.
func (s *Server) handleSubmitBill(w http.ResponseWriter, r *http.Request, u *session.User) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	e := s.draftFor(u)
	e.mu.Lock()
	defer e.mu.Unlock()

	navigated := false
	e.nav = func(path string) {
		navigated = true
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
	e.page.SetValues(r.PostForm)
	e.ctr.HandleSubmit(r.Context())
	e.nav = func(string) {}

	if navigated {
		// Submitted is terminal for this draft.
		s.mu.Lock()
		delete(s.drafts, u.Email)
		s.mu.Unlock()
		return
	}
	html, err := e.page.HTML()
	writeHTML(w, html, err)
}

// handleReceiptFile serves a stored receipt image.
func (s *Server) handleReceiptFile(w http.ResponseWriter, r *http.Request, u *session.User) {
	name := r.PathValue("name")
	data, contentType, err := s.store.ReceiptFile(name)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
