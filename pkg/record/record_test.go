package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rubiojr/xmlsearch/pkg/diag"
)

// mapNode is a minimal Node for tests.
type mapNode map[string]string

func (n mapNode) First(name string) (string, bool) {
	v, ok := n[name]
	return v, ok
}

func TestMapperStrings(t *testing.T) {
	m, err := NewMapper(MapperConfig{Fields: FieldMap{"title": "title", "summary": "description"}})
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	rec := m.Map(mapNode{"title": "Apple Pie", "unused": "x"})
	if got := rec.Get("title").Text(); got != "Apple Pie" {
		t.Errorf("title = %q", got)
	}
	summary := rec.Get("summary")
	if summary.Kind() != KindString || summary.Text() != "" {
		t.Errorf("absent field should be an empty string, got %v %q", summary.Kind(), summary.Text())
	}
	if rec.Has("unused") {
		t.Error("unmapped source elements must not become fields")
	}
	if rec.Len() != 2 {
		t.Errorf("expected 2 fields, got %d", rec.Len())
	}
}

func TestMapperDates(t *testing.T) {
	rec := &diag.Recorder{}
	m, err := NewMapper(MapperConfig{
		Fields:    FieldMap{"title": "title", "published": "pubDate"},
		DateField: "published",
		Sink:      rec,
	})
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	good := m.Map(mapNode{"title": "a", "pubDate": "Mon, 02 Jan 2006 15:04:05 -0700"})
	when, ok := good.Get("published").Time()
	if !ok {
		t.Fatalf("expected a date value, got %v", good.Get("published").Kind())
	}
	if !when.Equal(time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected date %v", when)
	}
	if got := good.Get("published").Text(); got != "2006-01-02T22:04:05Z" {
		t.Errorf("date text = %q", got)
	}

	bad := m.Map(mapNode{"title": "b", "pubDate": "not a date"})
	if !bad.Get("published").IsNull() {
		t.Error("unparsable date should be null")
	}
	if bad.Get("title").Text() != "b" {
		t.Error("other fields must survive a date failure")
	}
	if rec.Count(diag.FieldParseFailure) != 1 {
		t.Fatalf("expected one field failure, got %d", rec.Count(diag.FieldParseFailure))
	}
	if rec.Errors()[0].Field != "published" {
		t.Errorf("failure should name the field, got %q", rec.Errors()[0].Field)
	}

	empty := m.Map(mapNode{"title": "c", "pubDate": "  "})
	if !empty.Get("published").IsNull() {
		t.Error("empty date should be null")
	}
	absent := m.Map(mapNode{"title": "d"})
	if v := absent.Get("published"); v.Kind() != KindString || v.Text() != "" {
		t.Error("absent date element stays an empty string")
	}
	if rec.Len() != 1 {
		t.Errorf("empty or absent dates must not be reported, got %d reports", rec.Len())
	}
}

func TestMapperDateFormatTriedFirst(t *testing.T) {
	m, err := NewMapper(MapperConfig{
		Fields:     FieldMap{"d": "d"},
		DateField:  "d",
		DateFormat: "02.01.2006",
	})
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	when, ok := m.Map(mapNode{"d": "03.04.2024"}).Get("d").Time()
	if !ok || when.Month() != time.April || when.Day() != 3 {
		t.Errorf("layout not honored: %v %v", when, ok)
	}
	// falls back to the generic parser
	if _, ok := m.Map(mapNode{"d": "2024-04-03"}).Get("d").Time(); !ok {
		t.Error("generic fallback failed")
	}
}

func TestMapperRejectsUnknownDateField(t *testing.T) {
	_, err := NewMapper(MapperConfig{Fields: FieldMap{"title": "title"}, DateField: "published"})
	if err == nil {
		t.Fatal("expected error for a date field outside the field map")
	}
}

func TestParseDate(t *testing.T) {
	valid := []string{
		"2024-03-05",
		"2024-03-05T10:11:12Z",
		"2024-03-05 10:11:12",
		"Tue, 05 Mar 2024 10:11:12 GMT",
		"March 5, 2024",
		"5 Mar 2024",
		"03/05/2024",
	}
	for _, raw := range valid {
		if _, err := ParseDate(raw); err != nil {
			t.Errorf("ParseDate(%q): %v", raw, err)
		}
	}
	for _, raw := range []string{"", "yesterday", "2024-13-45"} {
		if _, err := ParseDate(raw); err == nil {
			t.Errorf("ParseDate(%q) should fail", raw)
		}
	}
}

func TestRecordJSON(t *testing.T) {
	r := New(map[string]Value{
		"title": String("x"),
		"when":  Date(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)),
		"gone":  Null(),
	})
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"gone":null,"title":"x","when":"2020-01-02T03:04:05Z"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
