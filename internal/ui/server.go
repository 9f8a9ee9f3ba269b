package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	httpapi "github.com/fairyhunter13/inventory-ui/internal/http"
	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// views lists the page templates, one per view.
var views = []string{"products", "create", "confirm", "notfound"}

// Server is the navigation shell: it routes paths to views and renders them.
type Server struct {
	api      ProductAPI
	sessions *Sessions
	pages    map[string]*template.Template
}

type row struct {
	ID        string
	Name      string
	Price     string
	Quantity  string
	DeleteURL string
}

type pageData struct {
	Title   string
	Nav     string
	Flash   string
	Error   string
	Rows    []row
	Product row
}

// New parses the view templates once.
func New(api ProductAPI, sessions *Sessions) (*Server, error) {
	pages := make(map[string]*template.Template, len(views))
	for _, v := range views {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.gohtml", "templates/"+v+".gohtml")
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s view", v)
		}
		pages[v] = tmpl
	}
	return &Server{api: api, sessions: sessions, pages: pages}, nil
}

// Handler returns the mux with all views wrapped in the request ID and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.listHandler)
	mux.HandleFunc("/create", s.createHandler)
	mux.HandleFunc("/delete/", s.deleteHandler)
	mux.HandleFunc("/products.xlsx", s.exportHandler)
	mux.HandleFunc("/healthz", s.healthHandler)
	return httpapi.WithRequestID(httpapi.WithLogging(mux))
}

// session returns the caller's session, starting one when the cookie is
// missing or refers to a swept session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(c.Value); ok {
			return sess
		}
	}
	sess := s.sessions.Start()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// listHandler mounts the list view on "/" and renders the not-found view for
// every path no other route claims.
func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.notFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	sess.Visit("/")
	list := sess.List()
	if sess.takeKeepList() {
		if st := list.State(); st.Loaded {
			s.renderList(w, sess, st)
			return
		}
	}
	st, err := list.Load(r.Context())
	switch {
	case errors.Is(err, ErrDiscarded):
		obs.Logger.Debug("product_list_superseded", "request_id", obs.RequestIDFromContext(r.Context()))
	case err != nil:
		obs.Logger.Warn("product_list_failed", "request_id", obs.RequestIDFromContext(r.Context()), "error", err)
	}
	s.renderList(w, sess, st)
}

// renderList renders st, the outcome this request produced or reused.
func (s *Server) renderList(w http.ResponseWriter, sess *Session, st ListState) {
	data := pageData{Title: "Products", Nav: "list", Flash: sess.TakeFlash()}
	status := http.StatusOK
	if st.Err != nil {
		status = http.StatusBadGateway
		data.Error = userMessage(st.Err)
	}
	data.Rows = make([]row, 0, len(st.Products))
	for _, p := range st.Products {
		data.Rows = append(data.Rows, toRow(p))
	}
	s.render(w, status, "products", data)
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		sess.Visit("/create")
		s.render(w, http.StatusOK, "create", pageData{Title: "Add product", Nav: "create", Flash: sess.TakeFlash()})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		view := NewCreateView(s.api)
		view.Bind(r.PostForm)
		if err := view.Submit(r.Context()); err != nil {
			sess.SetFlash("The product was not created. " + userMessage(err))
		}
		http.Redirect(w, r, sess.Back("/create"), http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// deleteHandler serves the confirmation dialog (GET) and its answer (POST).
// The answer redirects to the list, which then renders the local collection
// once without a refetch.
func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/delete/"))
	if err != nil || raw == "" {
		s.notFound(w, r)
		return
	}
	id := model.ID(raw)
	sess := s.session(w, r)
	list := sess.List()

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		p, ok := list.Lookup(id)
		if !ok {
			p = model.Product{ID: id}
		}
		s.render(w, http.StatusOK, "confirm", pageData{Title: "Delete product", Nav: "list", Product: toRow(p)})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		confirmed := r.PostForm.Get("decision") == "confirm"
		sent, err := list.Delete(r.Context(), id, confirmed)
		switch {
		case err != nil:
			obs.Logger.Warn("product_delete_failed", "request_id", obs.RequestIDFromContext(r.Context()), "product_id", raw, "error", err)
			sess.SetFlash("The product was not deleted. " + userMessage(err))
		case sent:
			obs.Logger.Info("product_deleted", "request_id", obs.RequestIDFromContext(r.Context()), "product_id", raw)
		}
		sess.KeepList()
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	products, err := s.api.List(r.Context())
	if err != nil {
		http.Error(w, userMessage(err), http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := writeWorkbook(&buf, products); err != nil {
		obs.Logger.Error("export_failed", "request_id", obs.RequestIDFromContext(r.Context()), "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", exportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "notfound", pageData{Title: "Not found"})
}

// render executes the page into a buffer first so a template error never
// produces a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, view string, data pageData) {
	var buf bytes.Buffer
	if err := s.pages[view].ExecuteTemplate(&buf, "layout", data); err != nil {
		obs.Logger.Error("render_failed", "view", view, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func toRow(p model.Product) row {
	return row{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price.String(),
		Quantity:  strconv.FormatInt(p.Quantity, 10),
		DeleteURL: "/delete/" + url.PathEscape(p.ID.String()),
	}
}
