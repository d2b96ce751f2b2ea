// Package gisttest provides an in-memory Gists API for tests.
package gisttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-shop/internal/gist"
)

// Server is a fake Gists API. Writes require Token; reads do not.
type Server struct {
	*httptest.Server
	Token string

	mu       sync.Mutex
	gists    map[string]*gist.Gist
	nextID   int
	requests int
	// Hold, when set, is waited on before each write is processed.
	Hold chan struct{}
}

// NewServer starts a fake API accepting token for writes.
func NewServer(token string) *Server {
	s := &Server{Token: token, gists: map[string]*gist.Gist{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gists", s.create)
	mux.HandleFunc("PATCH /gists/{id}", s.update)
	mux.HandleFunc("GET /gists/{id}", s.get)
	mux.HandleFunc("GET /raw/{id}/{name}", s.raw)
	mux.HandleFunc("HEAD /{$}", func(w http.ResponseWriter, r *http.Request) {})
	s.Server = httptest.NewServer(mux)
	return s
}

// Put stores a gist directly, bypassing auth. It returns the id.
func (s *Server) Put(files map[string]string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := "g" + strconv.Itoa(s.nextID)
	g := &gist.Gist{ID: id, Files: map[string]*gist.File{}, UpdatedAt: time.Now()}
	for name, content := range files {
		g.Files[name] = &gist.File{Filename: name, Content: content}
	}
	s.gists[id] = g
	return id
}

// PutTruncated stores a gist whose file content is only available via raw_url.
func (s *Server) PutTruncated(name, content string) string {
	id := s.Put(map[string]string{name: content})
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.gists[id].Files[name]
	f.Truncated = true
	f.RawURL = s.URL + "/raw/" + id + "/" + name
	return id
}

// Content returns the content of file name in gist id.
func (s *Server) Content(id, name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gists[id]
	if !ok || g.Files[name] == nil {
		return "", false
	}
	return g.Files[name].Content, true
}

// Gist returns a copy of the stored gist.
func (s *Server) Gist(id string) (gist.Gist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gists[id]
	if !ok {
		return gist.Gist{}, false
	}
	return clone(g, false), true
}

// Requests returns how many API requests were served.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) count() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") != s.Token || s.Token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return false
	}
	return true
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	s.count()
	if !s.authorized(w, r) {
		return
	}
	if s.Hold != nil {
		<-s.Hold
	}
	var req gist.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Files) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Validation Failed"})
		return
	}
	s.mu.Lock()
	s.nextID++
	id := "g" + strconv.Itoa(s.nextID)
	g := &gist.Gist{ID: id, Description: req.Description, Public: req.Public, Files: map[string]*gist.File{}, UpdatedAt: time.Now()}
	for name, f := range req.Files {
		g.Files[name] = &gist.File{Filename: name, Content: f.Content}
	}
	s.gists[id] = g
	out := clone(g, false)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	s.count()
	if !s.authorized(w, r) {
		return
	}
	if s.Hold != nil {
		<-s.Hold
	}
	var req struct {
		Files map[string]*gist.File `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Problems parsing JSON"})
		return
	}
	s.mu.Lock()
	g, ok := s.gists[r.PathValue("id")]
	if !ok {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	for name, f := range req.Files {
		g.Files[name] = &gist.File{Filename: name, Content: f.Content}
	}
	g.UpdatedAt = time.Now()
	out := clone(g, false)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.count()
	s.mu.Lock()
	g, ok := s.gists[r.PathValue("id")]
	var out gist.Gist
	if ok {
		out = clone(g, true)
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// clone deep-copies g. With cut set, truncated files lose half their
// content, as the real API serves them.
func clone(g *gist.Gist, cut bool) gist.Gist {
	out := *g
	out.Files = make(map[string]*gist.File, len(g.Files))
	for name, f := range g.Files {
		cp := *f
		if cut && cp.Truncated {
			cp.Content = cp.Content[:len(cp.Content)/2]
		}
		out.Files[name] = &cp
	}
	return out
}

func (s *Server) raw(w http.ResponseWriter, r *http.Request) {
	content, ok := s.Content(r.PathValue("id"), r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(content))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
