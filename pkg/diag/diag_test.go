package diag

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rubiojr/xmlsearch/pkg/log"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(InvalidSortField, "unknown field"), "invalid_sort_field: unknown field"},
		{"field", FieldError("date", "cannot parse", nil), "field_parse_failure: cannot parse (field=date)"},
		{"cause", Wrap(LoadFailure, "fetching feed.xml", cause), "load_failure: fetching feed.xml: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKindUnwraps(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("loading: %w", Wrap(LoadFailure, "fetch", cause))
	if !IsKind(err, LoadFailure) {
		t.Fatal("expected LoadFailure kind through wrapping")
	}
	if IsKind(err, FieldParseFailure) {
		t.Fatal("unexpected kind match")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable with errors.Is")
	}
}

func TestRecorderAndMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	sink := Multi(a, nil, b)
	sink.Report(New(InvalidSortField, "x"))
	sink.Report(FieldError("date", "y", nil))
	sink.Report(nil)

	if a.Len() != 2 || b.Len() != 2 {
		t.Fatalf("expected 2 reports in each recorder, got %d and %d", a.Len(), b.Len())
	}
	if a.Count(FieldParseFailure) != 1 {
		t.Fatalf("expected 1 field failure, got %d", a.Count(FieldParseFailure))
	}
	if a.Errors()[0].Kind != InvalidSortField {
		t.Fatal("reports should keep arrival order")
	}
}

func TestLogSinkLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetGlobalDebug(false)

	s := NewLogSink("diag_sink_test")
	s.Report(Wrap(LoadFailure, "unreachable", errors.New("dial tcp")))
	s.Report(New(InvalidSortField, "unknown field nope"))
	s.Report(New(UnsafeInputRejected, "escaped term"))

	out := buf.String()
	if !strings.Contains(out, "ERROR [diag_sink_test] load_failure: unreachable: dial tcp") {
		t.Errorf("missing error line: %q", out)
	}
	if !strings.Contains(out, "WARN [diag_sink_test] invalid_sort_field") {
		t.Errorf("missing warn line: %q", out)
	}
	if strings.Contains(out, "escaped term") {
		t.Errorf("sanitization reports should only appear in debug mode: %q", out)
	}
}

func TestConsoleSink(t *testing.T) {
	color.NoColor = true
	buf := &bytes.Buffer{}
	s := NewConsoleSink(buf)
	s.Report(FieldError("published", "invalid date", nil))

	want := "[field_parse_failure] field_parse_failure: invalid date (field=published)\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
