// Package server is the router: it maps paths to the employee containers,
// carries the session cookie, and serves stored receipt files.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bill-tracker/internal/bill"
	"bill-tracker/internal/newbill"
	"bill-tracker/internal/routes"
	"bill-tracker/internal/session"
	"bill-tracker/internal/view"
)

// sessionCookie carries the signed identity token.
const sessionCookie = "billed_session"

// BillStore is what the router needs from the store: the containers'
// contract plus receipt file serving.
type BillStore interface {
	bill.Store
	ReceiptFile(name string) ([]byte, string, error)
}

// Server routes HTTP requests to the containers.
type Server struct {
	store    BillStore
	sessions *session.Manager
	mux      *http.ServeMux

	mu     sync.Mutex
	drafts map[string]*draftEntry // in-progress new-bill form per employee
}

// draftEntry pairs one employee's form page with the container that owns
// the draft. nav is swapped per request so navigation lands on the right
// response.
type draftEntry struct {
	mu   sync.Mutex
	page *view.NewBillPage
	ctr  *newbill.Container
	nav  func(path string)
}

// New creates a Server with a default mux.
func New(store BillStore, sessions *session.Manager) *Server {
	return NewWithMux(store, sessions, http.NewServeMux())
}

// NewWithMux creates a Server on a custom mux for testing.
func NewWithMux(store BillStore, sessions *session.Manager, mux *http.ServeMux) *Server {
	s := &Server{
		store:    store,
		sessions: sessions,
		mux:      mux,
		drafts:   make(map[string]*draftEntry),
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all routes, most specific first.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /employee/bill/new/file", instrument("/employee/bill/new/file", s.requireAuth(s.handleUploadReceipt)))
	s.mux.HandleFunc("POST /employee/bill/new", instrument("/employee/bill/new", s.requireAuth(s.handleSubmitBill)))
	s.mux.HandleFunc("GET /employee/bill/new", instrument("/employee/bill/new", s.requireAuth(s.handleNewBillForm)))
	s.mux.HandleFunc("GET /employee/bills", instrument("/employee/bills", s.requireAuth(s.handleBills)))
	s.mux.HandleFunc("GET /bills/file/{name}", instrument("/bills/file", s.requireAuth(s.handleReceiptFile)))

	s.mux.HandleFunc("POST /login", instrument("/login", s.handleLoginPost))
	s.mux.HandleFunc("GET /logout", instrument("/logout", s.handleLogout))
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /{$}", instrument("/", s.handleLogin))
}

// Start runs the HTTP server.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// currentUser reads and validates the session cookie.
func (s *Server) currentUser(r *http.Request) *session.User {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	u, err := s.sessions.Validate(cookie.Value)
	if err != nil {
		return nil
	}
	return u
}

// requireAuth redirects unauthenticated requests to the login page.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, *session.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := s.currentUser(r)
		if u == nil {
			http.Redirect(w, r, routes.Login, http.StatusSeeOther)
			return
		}
		next(w, r, u)
	}
}

// draftFor returns the employee's in-progress form, creating it on first
// visit. One container owns one draft for the lifetime of the form.
func (s *Server) draftFor(u *session.User) *draftEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.drafts[u.Email]
	if !ok {
		e = &draftEntry{
			page: view.NewNewBillPage(),
			nav:  func(string) {},
		}
		e.ctr = newbill.New(newbill.Params{
			View:     e.page,
			Navigate: func(path string) { e.nav(path) },
			Store:    s.store,
			Session:  session.Static{Current: u},
		})
		s.drafts[u.Email] = e
	}
	return e
}

// dropDraft discards an employee's in-progress form; navigating away from
// the form loses the draft.
func (s *Server) dropDraft(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.drafts[email]; ok {
		e.ctr.Detach()
		delete(s.drafts, email)
	}
}
