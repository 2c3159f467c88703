// Package markup escapes user supplied text for safe embedding in rendered
// output and matches literal terms inside escaped text.
//
// Escaping is idempotent: the entities produced by Sanitize are left alone
// when the text is sanitized again, so a term that was already escaped can
// be fed back without being escaped twice.
package markup

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// entities produced by Sanitize. Any other '&' is escaped.
var entities = []string{"&lt;", "&gt;", "&quot;", "&#39;", "&amp;"}

var entityRe = regexp.MustCompile(`&(?:lt|gt|quot|#39|amp);`)

// Sanitize escapes < > " ' and &. Existing &lt; &gt; &quot; &#39; and &amp;
// entities are kept as they are.
func Sanitize(s string) string {
	if !strings.ContainsAny(s, `<>"'&`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		case '&':
			if n := entityAt(s[i:]); n > 0 {
				b.WriteString(s[i : i+n])
				i += n - 1
				continue
			}
			b.WriteString("&amp;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func entityAt(s string) int {
	for _, e := range entities {
		if strings.HasPrefix(s, e) {
			return len(e)
		}
	}
	return 0
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start, End int
}

// Matcher finds a literal term case-insensitively in sanitized text. The
// zero value and matchers for an empty term never match.
type Matcher struct {
	term string
	re   *regexp.Regexp
}

// NewMatcher builds a matcher for term. The term is sanitized first and its
// regexp metacharacters are quoted, so "a.b" only matches "a.b".
func NewMatcher(term string) *Matcher {
	term = Sanitize(term)
	if term == "" {
		return &Matcher{}
	}
	return &Matcher{term: term, re: regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))}
}

// Term returns the sanitized term.
func (m *Matcher) Term() string {
	return m.term
}

// Empty reports whether the matcher has no term.
func (m *Matcher) Empty() bool {
	return m == nil || m.re == nil
}

// Find returns the leftmost non-overlapping occurrences of the term in
// text. Occurrences that would start or end inside an entity are skipped.
func (m *Matcher) Find(text string) []Span {
	return m.find(text, -1)
}

// Contains reports whether text holds at least one occurrence.
func (m *Matcher) Contains(text string) bool {
	return len(m.find(text, 1)) > 0
}

func (m *Matcher) find(text string, limit int) []Span {
	if m.Empty() || text == "" {
		return nil
	}
	ents := entityRe.FindAllStringIndex(text, -1)
	var out []Span
	for i := 0; i < len(text); {
		loc := m.re.FindStringIndex(text[i:])
		if loc == nil {
			break
		}
		start, end := i+loc[0], i+loc[1]
		if end == start {
			break
		}
		if splitsEntity(ents, start) || splitsEntity(ents, end) {
			_, size := utf8.DecodeRuneInString(text[start:])
			i = start + size
			continue
		}
		out = append(out, Span{Start: start, End: end})
		if limit > 0 && len(out) >= limit {
			break
		}
		i = end
	}
	return out
}

// splitsEntity reports whether pos falls strictly inside one of ents.
func splitsEntity(ents [][]int, pos int) bool {
	for _, e := range ents {
		if pos > e[0] && pos < e[1] {
			return true
		}
		if e[0] >= pos {
			break
		}
	}
	return false
}
