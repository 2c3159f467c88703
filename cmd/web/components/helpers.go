package components

import (
	"html"
	"strconv"

	"github.com/rubiojr/xmlsearch/cmd/web/components/types"
	"github.com/rubiojr/xmlsearch/pkg/session"
)

// PageURL returns the link to page n of the current search.
func PageURL(state *session.State, opts session.Options, n int) string {
	s := session.New()
	if state != nil {
		s = state.Clone()
	}
	s.SetPage(n)
	q := s.Encode(opts).Encode()
	if q == "" {
		return "/"
	}
	return "/?" + q
}

// SortURL returns the link that sorts the current search by field.
func SortURL(data types.PageData, field, dir string) string {
	q := session.New()
	if data.State != nil {
		q = data.State.Clone()
	}
	v := q.Encode(data.SessionOptions)
	v.Del(session.PageParam)
	v.Set(session.SortParam, field)
	v.Set(session.DirParam, dir)
	return "/?" + v.Encode()
}

// InputValue is the text shown in the search box. Terms are stored
// sanitized, so they are unescaped once before the template escapes them
// again.
func InputValue(term string) string {
	return html.UnescapeString(term)
}

// FormatCount renders "1 result" or "N results".
func FormatCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return strconv.Itoa(n) + " results"
}
