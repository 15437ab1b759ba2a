package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// AssetServer serves fixed payloads by URL path and counts requests.
type AssetServer struct {
	*httptest.Server

	mu    sync.Mutex
	files map[string][]byte
	hits  map[string]int
}

// NewAssetServer starts a server for files, keyed by URL path
// (e.g. "/models/weights.th"). Unknown paths answer 404. The server is
// closed when the test ends.
func NewAssetServer(t *testing.T, files map[string][]byte) *AssetServer {
	t.Helper()

	s := &AssetServer{files: files, hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *AssetServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	body, ok := s.files[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

// URLFor returns the absolute URL serving path.
func (s *AssetServer) URLFor(path string) string {
	return s.URL + path
}

// Set replaces or adds the payload served at path.
func (s *AssetServer) Set(path string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = body
}

// Hits returns the number of requests seen for path.
func (s *AssetServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests seen for all paths.
func (s *AssetServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}
