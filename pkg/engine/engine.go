// Package engine derives filtered, sorted and paginated result views from an
// immutable record set.
//
// Every view is recomputed from the full record set; nothing is cached
// between calls, so a view can never disagree with the term and sort that
// produced it.
package engine

import (
	"fmt"

	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/log"
	"github.com/rubiojr/xmlsearch/pkg/markup"
	"github.com/rubiojr/xmlsearch/pkg/record"
)

// DefaultPageSize is used when pagination is on and no positive page size
// is requested.
const DefaultPageSize = 10

type Options struct {
	// Fields are the valid logical field names. A sort on any other field
	// is ignored.
	Fields []string
	// SearchFields are the fields a search term is matched against, in
	// order. Empty means a non-empty term matches nothing.
	SearchFields []string
	// Paginate enables slicing. When false every view holds the whole
	// result sequence.
	Paginate bool
	Sink     diag.Sink
}

// Query is everything one evaluation depends on besides the record set.
type Query struct {
	Term     string
	Sort     *Sort
	Page     int
	PageSize int
}

// View is the result of one evaluation.
type View struct {
	Items      []record.Record
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	// Term is the sanitized term the view was filtered with.
	Term string
	// Sort is the sort that was applied, nil when none was.
	Sort *Sort
}

func (v View) HasPrev() bool { return v.Page > 1 }
func (v View) HasNext() bool { return v.Page < v.TotalPages }

// Engine owns the record set and the engine-level search state. The record
// set is never mutated after SetRecords; Evaluate only reads it.
type Engine struct {
	records      []record.Record
	fields       map[string]bool
	searchFields []string
	paginate     bool
	sink         diag.Sink
	logger       *log.Logger

	term string
	sort *Sort
}

func New(opts Options) *Engine {
	fields := make(map[string]bool, len(opts.Fields))
	for _, f := range opts.Fields {
		fields[f] = true
	}
	sf := make([]string, len(opts.SearchFields))
	copy(sf, opts.SearchFields)
	return &Engine{
		fields:       fields,
		searchFields: sf,
		paginate:     opts.Paginate,
		sink:         diag.OrDiscard(opts.Sink),
		logger:       log.ForService("engine"),
	}
}

// SetRecords replaces the record set with a copy of recs.
func (e *Engine) SetRecords(recs []record.Record) {
	cp := make([]record.Record, len(recs))
	copy(cp, recs)
	e.records = cp
}

// Len returns the size of the record set.
func (e *Engine) Len() int {
	return len(e.records)
}

// SetSearchTerm sanitizes and stores the term. Case folding happens at
// match time.
func (e *Engine) SetSearchTerm(term string) {
	e.term = markup.Sanitize(term)
}

func (e *Engine) SearchTerm() string {
	return e.term
}

// SetSort sets the sort configuration; nil clears it.
func (e *Engine) SetSort(s *Sort) {
	if s == nil {
		e.sort = nil
		return
	}
	cp := *s
	e.sort = &cp
}

// Compute evaluates the stored term and sort for the requested page.
func (e *Engine) Compute(page, pageSize int) View {
	return e.Evaluate(Query{Term: e.term, Sort: e.sort, Page: page, PageSize: pageSize})
}

// Evaluate runs filter, sort and paginate for q. It does not touch the
// engine state, so concurrent evaluations over one engine are safe.
func (e *Engine) Evaluate(q Query) View {
	term := markup.Sanitize(q.Term)
	results := e.filter(term)

	var applied *Sort
	if q.Sort != nil {
		if e.fields[q.Sort.Field] {
			sortRecords(results, *q.Sort)
			cp := *q.Sort
			applied = &cp
		} else {
			e.sink.Report(diag.New(diag.InvalidSortField,
				fmt.Sprintf("unknown sort field %q, results are left unsorted", q.Sort.Field)))
		}
	}

	v := e.slicePage(results, q.Page, q.PageSize)
	v.Term = term
	v.Sort = applied
	e.logger.Debugf("term=%q sort=%s page=%d/%d total=%d", term, applied, v.Page, v.TotalPages, v.Total)
	return v
}

func (e *Engine) filter(term string) []record.Record {
	if term == "" {
		out := make([]record.Record, len(e.records))
		copy(out, e.records)
		return out
	}
	m := markup.NewMatcher(term)
	out := []record.Record{}
	for _, r := range e.records {
		if e.matches(r, m) {
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) matches(r record.Record, m *markup.Matcher) bool {
	for _, f := range e.searchFields {
		v := r.Get(f)
		if v.IsNull() {
			continue
		}
		if m.Contains(markup.Sanitize(v.Text())) {
			return true
		}
	}
	return false
}

func (e *Engine) slicePage(results []record.Record, page, pageSize int) View {
	total := len(results)
	if !e.paginate {
		return View{Items: results, Page: 1, PageSize: pageSize, Total: total, TotalPages: 1}
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := max(1, (total+pageSize-1)/pageSize)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	items := []record.Record{}
	if start < total {
		items = results[start:end:end]
	}
	return View{Items: items, Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}
