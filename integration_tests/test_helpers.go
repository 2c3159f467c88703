package integration_tests

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/rubiojr/xmlsearch/pkg/config"
)

// feedServer serves an RSS document that tests can replace at any time.
type feedServer struct {
	*httptest.Server
	mu     sync.Mutex
	body   string
	gzip   bool
	status int
}

func newFeedServer(t *testing.T, titles ...string) *feedServer {
	t.Helper()
	fs := &feedServer{body: rss(titles...), status: http.StatusOK}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *feedServer) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	body, gz, status := fs.body, fs.gzip, fs.status
	fs.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml")
	if !gz {
		_, _ = w.Write([]byte(body))
		return
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(body))
	_ = zw.Close()
	_, _ = w.Write(buf.Bytes())
}

func (fs *feedServer) set(titles ...string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.body = rss(titles...)
	fs.status = http.StatusOK
}

func (fs *feedServer) fail(status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status = status
}

func (fs *feedServer) compress(on bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.gzip = on
}

func rss(titles ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>feed</title>`)
	for _, title := range titles {
		b.WriteString("<item><title>")
		b.WriteString(title)
		b.WriteString("</title><description>")
		b.WriteString(title)
		b.WriteString(" description</description></item>")
	}
	b.WriteString("</channel></rss>")
	return b.String()
}

// createTestConfig writes a config for source to a temp dir and loads it
// back the way the commands do.
func createTestConfig(t *testing.T, source string) (*config.Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &config.Config{
		Source:        source,
		ItemSelector:  "item",
		FieldMap:      map[string]string{"title": "title", "description": "description"},
		SearchFields:  []string{"title"},
		DisplayFields: []string{"title"},
		Pagination:    true,
		PageSize:      10,
	}
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	return loaded, path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
