package session

import (
	"net/url"
	"testing"

	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/engine"
)

func TestInitFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		opts     Options
		wantTerm string
		unsafe   int
	}{
		{"default param", "s=apple", Options{}, "apple", 0},
		{"missing param", "q=apple", Options{}, "", 0},
		{"custom param", "q=apple&s=pear", Options{SearchParam: "q"}, "apple", 0},
		{"escaped", "s=%3Cscript%3E", Options{}, "&lt;script&gt;", 1},
		{"already escaped", "s=%26lt%3Bb%26gt%3B", Options{}, "&lt;b&gt;", 0},
		{"first value wins", "s=one&s=two", Options{}, "one", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			rec := &diag.Recorder{}
			tt.opts.Sink = rec
			s := InitFromQuery(params, tt.opts)
			if s.Term != tt.wantTerm {
				t.Errorf("term = %q, want %q", s.Term, tt.wantTerm)
			}
			if s.Page != 1 || s.Sort != nil {
				t.Errorf("unexpected page/sort: %d %v", s.Page, s.Sort)
			}
			if got := rec.Count(diag.UnsafeInputRejected); got != tt.unsafe {
				t.Errorf("unsafe reports = %d, want %d", got, tt.unsafe)
			}
		})
	}
}

func TestInitFromQueryDefaultSort(t *testing.T) {
	def := &engine.Sort{Field: "date", Direction: engine.Descending}
	s := InitFromQuery(url.Values{}, Options{DefaultSort: def})
	if s.Sort == nil || *s.Sort != *def {
		t.Fatalf("sort = %v", s.Sort)
	}
	s.Sort.Field = "changed"
	if def.Field != "date" {
		t.Fatal("state aliases the default sort")
	}
}

func TestDecodeEncode(t *testing.T) {
	params, _ := url.ParseQuery("s=pie&page=3&sort=title&dir=desc")
	s := Decode(params, Options{})
	if s.Term != "pie" || s.Page != 3 || s.Sort == nil || s.Sort.Field != "title" || s.Sort.Direction != engine.Descending {
		t.Fatalf("decoded %+v sort=%v", s, s.Sort)
	}
	if got := s.Encode(Options{}).Encode(); got != "dir=desc&page=3&s=pie&sort=title" {
		t.Errorf("encoded %q", got)
	}

	bad, _ := url.ParseQuery("page=x&sort=title&dir=sideways")
	s = Decode(bad, Options{})
	if s.Page != 1 || s.Sort.Direction != engine.Ascending {
		t.Errorf("bad params not ignored: %+v", s)
	}

	if got := New().Encode(Options{}).Encode(); got != "" {
		t.Errorf("empty state encoded to %q", got)
	}
}

func TestMutators(t *testing.T) {
	s := New()
	s.SetPage(4)
	s.SetSearchTerm("  a&b ")
	if s.Term != "a&amp;b" || s.Page != 1 {
		t.Fatalf("SetSearchTerm: %+v", s)
	}
	s.SetPage(-2)
	if s.Page != 1 {
		t.Errorf("page = %d", s.Page)
	}
	s.SetSortField("title", engine.Descending)
	s.ClearSort()
	if s.Sort != nil {
		t.Error("sort not cleared")
	}
}

func TestApplyEvents(t *testing.T) {
	s := New()
	for _, ev := range []Event{
		SearchTermChanged{Term: "apple"},
		PageChanged{Page: 2},
		SortChanged{Field: "title", Direction: engine.Descending},
	} {
		s.Apply(ev)
	}
	q := s.Query(10)
	if q.Term != "apple" || q.Page != 2 || q.PageSize != 10 || q.Sort.Field != "title" {
		t.Fatalf("query = %+v", q)
	}

	s.Apply(SearchTermChanged{Term: "pear"})
	if s.Page != 1 {
		t.Errorf("new term must reset the page, got %d", s.Page)
	}
	s.Apply(SortChanged{})
	if s.Sort != nil {
		t.Error("empty sort field should clear the sort")
	}
	s.Apply(nil)
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		in      string
		want    Event
		wantErr bool
	}{
		{`{"type":"page","page":3}`, PageChanged{Page: 3}, false},
		{`{"type":"sort","field":"title","direction":"desc"}`, SortChanged{Field: "title", Direction: engine.Descending}, false},
		{`{"type":"sort","field":"title"}`, SortChanged{Field: "title"}, false},
		{`{"type":"search","term":"<b>"}`, SearchTermChanged{Term: "<b>"}, false},
		{`{"type":"sort","field":"title","direction":"up"}`, nil, true},
		{`{"type":"zoom"}`, nil, true},
		{`not json`, nil, true},
	}
	for _, tt := range tests {
		got, err := DecodeEvent([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestClone(t *testing.T) {
	s := New()
	s.SetSortField("title", engine.Ascending)
	c := s.Clone()
	c.Sort.Field = "other"
	c.Page = 9
	if s.Sort.Field != "title" || s.Page != 1 {
		t.Fatal("clone shares state")
	}
}
