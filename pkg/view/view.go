// Package view turns engine results into renderable pages and defines the
// adapter boundary renderers implement.
package view

import (
	"context"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/xmlsearch/pkg/engine"
	"github.com/rubiojr/xmlsearch/pkg/highlight"
	"github.com/rubiojr/xmlsearch/pkg/markup"
)

// Field is one displayed value. Value is sanitized and may hold highlight
// markers, so HTML adapters can emit it as is.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type Item struct {
	// Position is the 1-based position of the item in the full result
	// sequence.
	Position int     `json:"position"`
	Fields   []Field `json:"fields"`
}

// Page is everything an adapter needs to render one result view.
type Page struct {
	Items      []Item       `json:"items"`
	Term       string       `json:"term"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
	Sort       *engine.Sort `json:"sort,omitempty"`
	Paginated  bool         `json:"paginated"`
}

func (p Page) Empty() bool   { return len(p.Items) == 0 }
func (p Page) HasPrev() bool { return p.Page > 1 }
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// ShowPagination reports whether page controls should be rendered.
func (p Page) ShowPagination() bool {
	return p.Paginated && p.TotalPages > 1
}

// Pages returns the page numbers 1..TotalPages.
func (p Page) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

type Options struct {
	// DisplayFields are rendered in order. Empty values are skipped.
	DisplayFields []string
	Highlighter   *highlight.Highlighter
	Paginated     bool
}

// Build converts an engine view into a page.
func Build(v engine.View, opts Options) Page {
	p := Page{
		Items:      make([]Item, 0, len(v.Items)),
		Term:       v.Term,
		Page:       v.Page,
		PageSize:   v.PageSize,
		Total:      v.Total,
		TotalPages: v.TotalPages,
		Sort:       v.Sort,
		Paginated:  opts.Paginated,
	}
	offset := 0
	if opts.Paginated {
		offset = (v.Page - 1) * v.PageSize
	}
	for i, r := range v.Items {
		item := Item{Position: offset + i + 1}
		for _, name := range opts.DisplayFields {
			text := r.Get(name).Text()
			if text == "" {
				continue
			}
			value := opts.Highlighter.Highlight(markup.Sanitize(text), v.Term)
			item.Fields = append(item.Fields, Field{Name: name, Label: Label(name), Value: value})
		}
		p.Items = append(p.Items, item)
	}
	return p
}

// Label is the display label of a field name: "pub_date" becomes
// "Pub Date".
func Label(name string) string {
	return cases.Title(language.Und).String(strings.NewReplacer("_", " ", "-", " ").Replace(name))
}

// Adapter renders pages and load errors to a writer.
type Adapter interface {
	Render(ctx context.Context, w io.Writer, p Page) error
	RenderError(ctx context.Context, w io.Writer, err error) error
}
