// Package mockapi simulates the Unsplash collection endpoint and an image
// CDN for tests.
package mockapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

type response struct {
	status      int
	contentType string
	body        []byte
	delay       time.Duration
}

// Server serves /collections/{id}/photos/ and /images/{name}
type Server struct {
	server    *httptest.Server
	accessKey string

	mu       sync.RWMutex
	pages    map[string]map[int]response
	images   map[string]response
	requests []string
}

// NewServer starts a mock API. Requests whose client_id differs from
// accessKey get 401; an empty accessKey accepts anything.
func NewServer(accessKey string) *Server {
	m := &Server{
		accessKey: accessKey,
		pages:     make(map[string]map[int]response),
		images:    make(map[string]response),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/collections/", m.handleCollectionPhotos)
	mux.HandleFunc("/images/", m.handleImage)

	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the API base URL
func (m *Server) URL() string {
	return m.server.URL
}

// Close shuts the server down
func (m *Server) Close() {
	m.server.Close()
}

// SetPage serves records as the given page of a collection
func (m *Server) SetPage(collection string, page int, records []map[string]interface{}) {
	m.SetPageBody(collection, page, http.StatusOK, string(MustJSON(records)))
}

// SetPageBody serves a raw status and body for the given page
func (m *Server) SetPageBody(collection string, page int, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pages[collection] == nil {
		m.pages[collection] = make(map[int]response)
	}
	m.pages[collection][page] = response{status: status, contentType: "application/json", body: []byte(body)}
}

// SetImage serves data at /images/{name} and returns its URL
func (m *Server) SetImage(name, contentType string, data []byte) string {
	return m.setImage(name, response{status: http.StatusOK, contentType: contentType, body: data})
}

// SetImageStatus makes /images/{name} answer with a bare status
func (m *Server) SetImageStatus(name string, status int) string {
	return m.setImage(name, response{status: status})
}

// SetImageDelay makes /images/{name} answer after delay
func (m *Server) SetImageDelay(name string, delay time.Duration, data []byte) string {
	return m.setImage(name, response{status: http.StatusOK, contentType: "image/jpeg", body: data, delay: delay})
}

func (m *Server) setImage(name string, r response) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[name] = r
	return m.ImageURL(name)
}

// ImageURL returns the URL an image is served at
func (m *Server) ImageURL(name string) string {
	return m.server.URL + "/images/" + name
}

// Requests returns every request URI seen, in arrival order
func (m *Server) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns how many requests have been served
func (m *Server) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

func (m *Server) record(r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.RequestURI())
	m.mu.Unlock()
}

func (m *Server) handleCollectionPhotos(w http.ResponseWriter, r *http.Request) {
	m.record(r)

	// /collections/{id}/photos/
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "photos" {
		http.NotFound(w, r)
		return
	}
	collection := parts[1]

	if m.accessKey != "" && r.URL.Query().Get("client_id") != m.accessKey {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":["OAuth error: The access token is invalid"]}`))
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	m.mu.RLock()
	resp, ok := m.pages[collection][page]
	m.mu.RUnlock()

	if !ok {
		// past the last page
		resp = response{status: http.StatusOK, contentType: "application/json", body: []byte("[]")}
	}
	m.write(w, resp)
}

func (m *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	m.record(r)

	name := strings.TrimPrefix(r.URL.Path, "/images/")

	m.mu.RLock()
	resp, ok := m.images[name]
	m.mu.RUnlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	m.write(w, resp)
}

func (m *Server) write(w http.ResponseWriter, resp response) {
	if resp.delay > 0 {
		time.Sleep(resp.delay)
	}
	if resp.contentType != "" {
		w.Header().Set("Content-Type", resp.contentType)
	}
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}
