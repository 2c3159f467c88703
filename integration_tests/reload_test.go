package integration_tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/xmlsearch/pkg/api"
	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/realtime"
	"github.com/rubiojr/xmlsearch/pkg/search"
)

func startAPI(t *testing.T, svc *search.Service) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	api.NewServer(svc).RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func dialLive(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(ts.URL)
	u.Scheme = "ws"
	u.Path = "/api/live"
	u.RawQuery = query
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("Failed to dial live session: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func nextMessage(t *testing.T, conn *websocket.Conn) api.LiveMessage {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var msg api.LiveMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read live message: %v", err)
	}
	return msg
}

func getSearch(t *testing.T, ts *httptest.Server, query string) (int, api.SearchResponse) {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/search?" + query)
	if err != nil {
		t.Fatalf("Search request failed: %v", err)
	}
	defer resp.Body.Close()
	var sr api.SearchResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
			t.Fatalf("Failed to decode search response: %v", err)
		}
	}
	return resp.StatusCode, sr
}

func TestRemoteSourceReload(t *testing.T) {
	feed := newFeedServer(t, "Go 1.24 released", "Rust news", "Go tooling")
	cfg, _ := createTestConfig(t, feed.URL)

	hub := realtime.NewHub(8)
	svc, err := search.FromConfig(cfg, diag.Discard, hub)
	if err != nil {
		t.Fatalf("Failed to build service: %v", err)
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Initial load failed: %v", err)
	}
	ts := startAPI(t, svc)

	code, sr := getSearch(t, ts, "s=go")
	if code != http.StatusOK || sr.Total != 2 {
		t.Fatalf("Expected 2 results for go, got status %d total %d", code, sr.Total)
	}

	conn := dialLive(t, ts, "s=go")
	if init := nextMessage(t, conn); init.Type != api.MessageInit || init.Results.Total != 2 {
		t.Fatalf("Unexpected init message: %+v", init)
	}

	feed.set("Go 1.25 released", "Go generics", "Go modules", "Zig news")
	feed.compress(true)
	if err := <-svc.LoadAsync(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	msg := nextMessage(t, conn)
	if msg.Type != api.MessageView || msg.Reason != "reload" {
		t.Fatalf("Expected a reload view, got %+v", msg)
	}
	if msg.Results.Total != 3 {
		t.Errorf("Expected 3 results after reload, got %d", msg.Results.Total)
	}
	if got := msg.Results.Items[0].Fields[0].Value; got != "<mark>Go</mark> 1.25 released" {
		t.Errorf("First item = %q", got)
	}

	if st := svc.Status(); st.State != search.StateReady || st.Records != 4 {
		t.Errorf("Unexpected status after reload: %+v", st)
	}
}

func TestRemoteSourceFailureAndRecovery(t *testing.T) {
	feed := newFeedServer(t, "alpha", "beta")
	cfg, _ := createTestConfig(t, feed.URL)

	svc, err := search.FromConfig(cfg, diag.Discard, realtime.NewHub(8))
	if err != nil {
		t.Fatalf("Failed to build service: %v", err)
	}
	ts := startAPI(t, svc)

	feed.fail(http.StatusInternalServerError)
	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("Expected load to fail on HTTP 500")
	}
	if code, _ := getSearch(t, ts, "s=alpha"); code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 while failed, got %d", code)
	}

	conn := dialLive(t, ts, "")
	if init := nextMessage(t, conn); init.Error == "" {
		t.Errorf("Expected init to carry the load error: %+v", init)
	}

	feed.set("alpha", "beta", "alphabet")
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Recovery load failed: %v", err)
	}
	if msg := nextMessage(t, conn); msg.Reason != "reload" || msg.Results.Total != 3 {
		t.Errorf("Expected recovered view with 3 records, got %+v", msg)
	}
	if code, sr := getSearch(t, ts, "s=alpha"); code != http.StatusOK || sr.Total != 2 {
		t.Errorf("Expected 2 results after recovery, got status %d total %d", code, sr.Total)
	}
}

func TestLocalSourceIsolation(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.xml")
	second := filepath.Join(dir, "second.xml")
	writeFile(t, first, rss("shared one", "first only"))
	writeFile(t, second, rss("shared two", "shared three", "second only"))

	cfgA, _ := createTestConfig(t, first)
	cfgB, _ := createTestConfig(t, second)

	svcA, err := search.FromConfig(cfgA, diag.Discard, nil)
	if err != nil {
		t.Fatal(err)
	}
	svcB, err := search.FromConfig(cfgB, diag.Discard, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, svc := range []*search.Service{svcA, svcB} {
		if err := svc.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	tsA, tsB := startAPI(t, svcA), startAPI(t, svcB)
	if _, sr := getSearch(t, tsA, "s=shared"); sr.Total != 1 {
		t.Errorf("First source: expected 1 shared record, got %d", sr.Total)
	}
	if _, sr := getSearch(t, tsB, "s=shared"); sr.Total != 2 {
		t.Errorf("Second source: expected 2 shared records, got %d", sr.Total)
	}
	if _, sr := getSearch(t, tsA, "s=second"); sr.Total != 0 {
		t.Errorf("First source leaked records from the second: %d", sr.Total)
	}
}
