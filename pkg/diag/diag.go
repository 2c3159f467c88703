// Package diag defines the non-fatal error kinds of the result engine and
// the sinks they are reported to.
//
// Nothing in the engine panics or aborts a load for a single bad record:
// failures are wrapped in an *Error with a Kind and handed to a Sink.
package diag

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rubiojr/xmlsearch/pkg/log"
)

type Kind string

const (
	// LoadFailure means the raw source was unreachable or unparsable. The
	// record set stays empty.
	LoadFailure Kind = "load_failure"
	// FieldParseFailure means a single field of a single record could not
	// be parsed. The field becomes null and loading continues.
	FieldParseFailure Kind = "field_parse_failure"
	// InvalidSortField means a sort configuration names an unknown field.
	// Sorting is disabled.
	InvalidSortField Kind = "invalid_sort_field"
	// UnsafeInputRejected means a search term contained markup-significant
	// characters. They are escaped and processing continues.
	UnsafeInputRejected Kind = "unsafe_input_rejected"
)

type Error struct {
	Kind    Kind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// FieldError builds a FieldParseFailure for the named field.
func FieldError(field, msg string, cause error) *Error {
	return &Error{Kind: FieldParseFailure, Message: msg, Field: field, Cause: cause}
}

// IsKind reports whether err wraps a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// Sink receives every non-fatal failure.
type Sink interface {
	Report(err *Error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(err *Error)

func (f SinkFunc) Report(err *Error) { f(err) }

// Discard drops everything.
var Discard Sink = SinkFunc(func(*Error) {})

// Multi fans a report out to several sinks. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(err *Error) {
		for _, s := range sinks {
			if s != nil {
				s.Report(err)
			}
		}
	})
}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// LogSink writes reports to a named logger. Load failures are errors,
// sanitization is debug noise and everything else is a warning.
type LogSink struct {
	Logger *log.Logger
}

func NewLogSink(service string) *LogSink {
	return &LogSink{Logger: log.ForService(service)}
}

func (s *LogSink) Report(err *Error) {
	if err == nil {
		return
	}
	switch err.Kind {
	case LoadFailure:
		s.Logger.Errorf("%v", err)
	case UnsafeInputRejected:
		s.Logger.Debugf("%v", err)
	default:
		s.Logger.Warnf("%v", err)
	}
}

// Recorder keeps every report in memory. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	errs []*Error
}

func (r *Recorder) Report(err *Error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

// Errors returns a copy of the recorded reports in arrival order.
func (r *Recorder) Errors() []*Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Error, len(r.errs))
	copy(out, r.errs)
	return out
}

// Count returns how many reports of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.errs {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the number of recorded reports.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}
