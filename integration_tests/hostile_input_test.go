package integration_tests

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/search"
)

func TestHostileSearchInput(t *testing.T) {
	feed := newFeedServer(t,
		"Tom &amp; Jerry",
		"a+b (c)",
		"price [$5]",
		"&lt;b&gt;bold&lt;/b&gt;",
		"plain text",
	)
	cfg, _ := createTestConfig(t, feed.URL)

	rec := &diag.Recorder{}
	svc, err := search.FromConfig(cfg, rec, nil)
	if err != nil {
		t.Fatalf("Failed to build service: %v", err)
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	ts := startAPI(t, svc)

	attempts := []struct {
		name      string
		term      string
		wantTotal int
		wantTerm  string
		rejected  bool
	}{
		{"script tag", "<script>alert(1)</script>", 0, "&lt;script&gt;alert(1)&lt;/script&gt;", true},
		{"ampersand", "&", 1, "&amp;", true},
		{"regex alternation", "a|b", 0, "a|b", false},
		{"regex wildcard", ".*", 0, ".*", false},
		{"regex group", "(c)", 1, "(c)", false},
		{"regex class", "[$5]", 1, "[$5]", false},
		{"quote", `"'`, 0, "&quot;&#39;", true},
		{"escaped markup", "<b>", 1, "&lt;b&gt;", true},
	}

	for _, tc := range attempts {
		t.Run(tc.name, func(t *testing.T) {
			before := rec.Count(diag.UnsafeInputRejected)
			code, sr := getSearch(t, ts, "s="+url.QueryEscape(tc.term))
			if code != 200 {
				t.Fatalf("Expected 200, got %d", code)
			}
			if sr.Total != tc.wantTotal {
				t.Errorf("Expected %d results, got %d", tc.wantTotal, sr.Total)
			}
			if sr.Term != tc.wantTerm {
				t.Errorf("Expected term %q, got %q", tc.wantTerm, sr.Term)
			}
			if got := rec.Count(diag.UnsafeInputRejected) > before; got != tc.rejected {
				t.Errorf("Unsafe input reported = %v, want %v", got, tc.rejected)
			}
			for _, item := range sr.Items {
				for _, f := range item.Fields {
					v := strings.ReplaceAll(strings.ReplaceAll(f.Value, "<mark>", ""), "</mark>", "")
					if strings.ContainsAny(v, "<>") {
						t.Errorf("Unescaped markup in %q", f.Value)
					}
				}
			}
		})
	}
}
