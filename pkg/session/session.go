// Package session holds the per-user search state: the term, the current
// page and the sort. The state is initialised from URL query parameters,
// changed only by UI events and written back to the URL.
package session

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/engine"
	"github.com/rubiojr/xmlsearch/pkg/markup"
)

const DefaultSearchParam = "s"

// Parameter names used by Decode and Encode besides the search parameter.
const (
	PageParam = "page"
	SortParam = "sort"
	DirParam  = "dir"
)

type Options struct {
	// SearchParam is the query parameter holding the term. Defaults to "s".
	SearchParam string
	// DefaultSort is applied when the query does not name a sort.
	DefaultSort *engine.Sort
	Sink        diag.Sink
}

func (o Options) searchParam() string {
	if o.SearchParam == "" {
		return DefaultSearchParam
	}
	return o.SearchParam
}

type State struct {
	Term string       `json:"term"`
	Page int          `json:"page"`
	Sort *engine.Sort `json:"sort,omitempty"`
}

// New returns an empty state on page 1.
func New() *State {
	return &State{Page: 1}
}

// InitFromQuery builds a state from the search parameter alone. Only the
// first value of the parameter is used.
func InitFromQuery(params url.Values, opts Options) *State {
	s := New()
	raw := strings.TrimSpace(params.Get(opts.searchParam()))
	term := markup.Sanitize(raw)
	if term != raw {
		diag.OrDiscard(opts.Sink).Report(diag.New(diag.UnsafeInputRejected,
			fmt.Sprintf("search term %q was escaped to %q", raw, term)))
	}
	s.Term = term
	if opts.DefaultSort != nil {
		cp := *opts.DefaultSort
		s.Sort = &cp
	}
	return s
}

// Decode is InitFromQuery plus the page, sort and dir parameters. Values
// that do not parse are ignored.
func Decode(params url.Values, opts Options) *State {
	s := InitFromQuery(params, opts)
	if p, err := strconv.Atoi(params.Get(PageParam)); err == nil {
		s.SetPage(p)
	}
	if field := strings.TrimSpace(params.Get(SortParam)); field != "" {
		dir, err := engine.ParseDirection(params.Get(DirParam))
		if err != nil {
			dir = engine.Ascending
		}
		s.SetSortField(field, dir)
	}
	return s
}

// Encode writes the state as query parameters. Page 1 and an empty term
// are omitted.
func (s *State) Encode(opts Options) url.Values {
	v := url.Values{}
	if s.Term != "" {
		v.Set(opts.searchParam(), s.Term)
	}
	if s.Page > 1 {
		v.Set(PageParam, strconv.Itoa(s.Page))
	}
	if s.Sort != nil {
		v.Set(SortParam, s.Sort.Field)
		v.Set(DirParam, s.Sort.Direction.String())
	}
	return v
}

// SetPage stores n. Values below 1 become 1; the upper bound is clamped by
// the engine once the result size is known.
func (s *State) SetPage(n int) {
	s.Page = max(n, 1)
}

func (s *State) SetSortField(field string, dir engine.Direction) {
	s.Sort = &engine.Sort{Field: field, Direction: dir}
}

func (s *State) ClearSort() {
	s.Sort = nil
}

// SetSearchTerm sanitizes and stores term and goes back to page 1.
func (s *State) SetSearchTerm(term string) {
	s.Term = markup.Sanitize(strings.TrimSpace(term))
	s.Page = 1
}

// Query returns the engine query for this state.
func (s *State) Query(pageSize int) engine.Query {
	q := engine.Query{Term: s.Term, Page: s.Page, PageSize: pageSize}
	if s.Sort != nil {
		cp := *s.Sort
		q.Sort = &cp
	}
	return q
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	cp := *s
	if s.Sort != nil {
		srt := *s.Sort
		cp.Sort = &srt
	}
	return &cp
}
