// Package apitest provides an in-memory catalog REST API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// keyField is the primary key of each collection.
var keyField = map[string]string{
	"categories":      "name",
	"subcategories":   "name",
	"item-categories": "name",
	"products":        "code",
	"tags":            "name",
}

// Server is a fake catalog API. Collections hold raw JSON objects so any
// entity shape round-trips. Renames cascade to children like the real API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	items    map[string][]map[string]any
	uploads  map[string]bool
	failures map[string]int
	calls    map[string]int
	nextCode int
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		items:    make(map[string][]map[string]any),
		uploads:  make(map[string]bool),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.count, s.inject)
	r.Post("/uploads", s.upload)
	r.Delete("/uploads", s.deleteUpload)
	r.Get("/{coll}", s.list)
	r.Post("/{coll}", s.create)
	r.Put("/{coll}/{key}", s.update)
	r.Delete("/{coll}/{key}", s.remove)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Seed adds entities to a collection, e.g. Seed("categories", models.Category{...}).
func (s *Server) Seed(coll string, entities ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		b, err := json.Marshal(e)
		if err != nil {
			panic(err)
		}
		var obj map[string]any
		if err := json.Unmarshal(b, &obj); err != nil {
			panic(err)
		}
		s.items[coll] = append(s.items[coll], obj)
	}
}

// Fail makes every request matching method and path (e.g. "DELETE",
// "/tags") answer status until Recover is called.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Recover clears all injected failures.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]int)
}

// Calls returns how many requests hit method and path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// Uploads returns the URLs of files currently stored.
func (s *Server) Uploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.uploads))
	for u := range s.uploads {
		out = append(out, u)
	}
	return out
}

// Names returns the key of every item in coll, in order.
func (s *Server) Names(coll string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, obj := range s.items[coll] {
		out = append(out, fmt.Sprint(obj[keyField[coll]]))
	}
	return out
}

// collPath reduces a request path to its collection, "/tags/x" → "/tags".
func collPath(p string) string {
	if i := strings.Index(p[1:], "/"); i >= 0 {
		return p[:i+1]
	}
	return p
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.Method+" "+collPath(r.URL.Path)]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[r.Method+" "+collPath(r.URL.Path)]
		s.mu.Unlock()
		if ok {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}

func (s *Server) collection(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	coll := chi.URLParam(r, "coll")
	key, ok := keyField[coll]
	if !ok {
		writeText(w, http.StatusNotFound, "unknown collection")
		return "", "", false
	}
	return coll, key, true
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	coll, _, ok := s.collection(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	items := append([]map[string]any{}, s.items[coll]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) indexOf(coll, key, value string) int {
	for i, obj := range s.items[coll] {
		if fmt.Sprint(obj[key]) == value {
			return i
		}
	}
	return -1
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	coll, key, ok := s.collection(w, r)
	if !ok {
		return
	}
	var obj map[string]any
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		writeText(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if coll == "products" {
		s.nextCode++
		obj["code"] = fmt.Sprintf("P-%04d", s.nextCode)
	}
	if coll != "tags" {
		now := time.Now().UTC().Format(time.RFC3339)
		obj["createdAt"], obj["updatedAt"] = now, now
	}
	if s.indexOf(coll, key, fmt.Sprint(obj[key])) >= 0 {
		writeText(w, http.StatusConflict, "already exists")
		return
	}
	s.items[coll] = append(s.items[coll], obj)

	// Products and tags echo the stored entity; the taxonomy endpoints
	// answer with a plain message.
	if coll == "products" || coll == "tags" {
		writeJSON(w, http.StatusCreated, obj)
		return
	}
	writeText(w, http.StatusCreated, "created")
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	coll, key, ok := s.collection(w, r)
	if !ok {
		return
	}
	old := chi.URLParam(r, "key")
	var obj map[string]any
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		writeText(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(coll, key, old)
	if i < 0 {
		writeText(w, http.StatusNotFound, "not found")
		return
	}
	cur := s.items[coll][i]
	for k, v := range obj {
		cur[k] = v
	}
	if coll == "products" {
		cur["code"] = old
	}
	cur["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	if name := fmt.Sprint(cur["name"]); name != old {
		s.cascadeRename(coll, old, name)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

// cascadeRename rewrites references to a renamed parent. Callers hold s.mu.
func (s *Server) cascadeRename(coll, old, name string) {
	rewrite := func(child, field string) {
		for _, obj := range s.items[child] {
			if obj[field] == old {
				obj[field] = name
			}
		}
	}
	switch coll {
	case "categories":
		rewrite("subcategories", "categoryName")
		rewrite("item-categories", "categoryName")
		rewrite("products", "category")
	case "subcategories":
		rewrite("item-categories", "subcategoryName")
		rewrite("products", "subcategory")
	case "item-categories":
		rewrite("products", "itemCategory")
	}
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	coll, key, ok := s.collection(w, r)
	if !ok {
		return
	}
	value := chi.URLParam(r, "key")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(coll, key, value)
	if i < 0 {
		writeText(w, http.StatusNotFound, "not found")
		return
	}
	s.items[coll] = append(s.items[coll][:i], s.items[coll][i+1:]...)
	writeText(w, http.StatusOK, "deleted")
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeText(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()
	io.Copy(io.Discard, file)

	fileURL := s.URL + "/files/" + url.PathEscape(header.Filename)
	s.mu.Lock()
	s.uploads[fileURL] = true
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"url": fileURL})
}

func (s *Server) deleteUpload(w http.ResponseWriter, r *http.Request) {
	fileURL := r.URL.Query().Get("url")
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.uploads[fileURL] {
		writeText(w, http.StatusNotFound, "no such upload")
		return
	}
	delete(s.uploads, fileURL)
	writeText(w, http.StatusOK, "deleted")
}
