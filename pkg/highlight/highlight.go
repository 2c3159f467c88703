// Package highlight wraps occurrences of a search term in display text with
// emphasis markers.
package highlight

import (
	"strings"

	"github.com/rubiojr/xmlsearch/pkg/markup"
)

const (
	DefaultOpen  = "<mark>"
	DefaultClose = "</mark>"
)

type Highlighter struct {
	Enabled bool
	Open    string
	Close   string
}

// New returns a highlighter using <mark> markers.
func New(enabled bool) *Highlighter {
	return &Highlighter{Enabled: enabled, Open: DefaultOpen, Close: DefaultClose}
}

// Highlight wraps every case-insensitive literal occurrence of term in value
// with the markers, preserving the original casing. value is expected to be
// sanitized text. Text already inside a marker pair is left alone, so
// highlighting an already highlighted value changes nothing.
func (h *Highlighter) Highlight(value, term string) string {
	if h == nil || !h.Enabled || value == "" {
		return value
	}
	m := markup.NewMatcher(term)
	if m.Empty() {
		return value
	}

	open, closing := h.markers()
	var b strings.Builder
	rest := value
	for rest != "" {
		i := strings.Index(rest, open)
		if i < 0 {
			writeMarked(&b, rest, m, open, closing)
			break
		}
		writeMarked(&b, rest[:i], m, open, closing)
		j := strings.Index(rest[i+len(open):], closing)
		if j < 0 {
			// Unbalanced open marker: keep the remainder untouched.
			b.WriteString(rest[i:])
			break
		}
		end := i + len(open) + j + len(closing)
		b.WriteString(rest[i:end])
		rest = rest[end:]
	}
	return b.String()
}

func (h *Highlighter) markers() (string, string) {
	open, closing := h.Open, h.Close
	if open == "" {
		open = DefaultOpen
	}
	if closing == "" {
		closing = DefaultClose
	}
	return open, closing
}

func writeMarked(b *strings.Builder, text string, m *markup.Matcher, open, closing string) {
	last := 0
	for _, sp := range m.Find(text) {
		b.WriteString(text[last:sp.Start])
		b.WriteString(open)
		b.WriteString(text[sp.Start:sp.End])
		b.WriteString(closing)
		last = sp.End
	}
	b.WriteString(text[last:])
}
