package components

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/rubiojr/xmlsearch/cmd/web/components/types"
	"github.com/rubiojr/xmlsearch/pkg/log"
	"github.com/rubiojr/xmlsearch/pkg/render"
	"github.com/rubiojr/xmlsearch/pkg/session"
	"github.com/rubiojr/xmlsearch/pkg/view"
)

// SearchPage is the full search page: form, error or results, pagination.
func SearchPage(data types.PageData, tmpls *render.Templates) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		param := data.SessionOptions.SearchParam
		if param == "" {
			param = session.DefaultSearchParam
		}
		term := ""
		if data.State != nil {
			term = data.State.Term
		}
		if err := SearchForm(param, term).Render(ctx, w); err != nil {
			return err
		}
		if data.Error != "" {
			return ErrorMessage(data.Error, tmpls).Render(ctx, w)
		}
		if data.Loading() {
			_, err := io.WriteString(w, `<p class="loading">Loading records...</p>`)
			return err
		}
		if len(data.SortFields) > 0 && !data.Results.Empty() {
			if err := SortLinks(data).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := Results(data.Results, tmpls).Render(ctx, w); err != nil {
			return err
		}
		return Pagination(data.Results, func(n int) string {
			return PageURL(data.State, data.SessionOptions, n)
		}).Render(ctx, w)
	})
	return Layout(data.Title, data.Version, body)
}

// SearchForm renders the search box. term is sanitized text.
func SearchForm(param, term string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form class="search-form" method="get" action="/"><input type="search"`)
		h.attr("name", param)
		h.attr("value", InputValue(term))
		h.raw(` placeholder="Search..." autofocus><button type="submit">Search</button></form>`)
		return h.err
	})
}

// Results renders the total count and the items, or the no-results
// message.
func Results(p view.Page, tmpls *render.Templates) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.Empty() {
			return NoResults(p.Term, tmpls).Render(ctx, w)
		}
		h := &htmlWriter{w: w}
		h.raw(`<p class="result-count">`)
		h.text(FormatCount(p.Total))
		h.raw(`</p><ol class="results">`)
		for _, item := range p.Items {
			h.raw(`<li class="result"`)
			h.attr("value", strconv.Itoa(item.Position))
			h.raw(">")
			if h.err != nil {
				return h.err
			}
			if err := Item(item, tmpls).Render(ctx, w); err != nil {
				return err
			}
			h.raw("</li>")
		}
		h.raw("</ol>")
		return h.err
	})
}

// Item renders one result. Field values are sanitized and may carry
// highlight markers, so they are written unescaped.
func Item(item view.Item, tmpls *render.Templates) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if tmpls.HasItem() {
			err := tmpls.RenderItem(w, item)
			if err == nil {
				return nil
			}
			log.ForService("web").Warnf("custom item template failed, using default: %v", err)
		}
		h := &htmlWriter{w: w}
		h.raw(`<dl class="item">`)
		for _, f := range item.Fields {
			h.raw(`<dt`)
			h.attr("class", "field-"+f.Name)
			h.raw(">")
			h.text(f.Label)
			h.raw(`</dt><dd>`)
			h.raw(f.Value)
			h.raw(`</dd>`)
		}
		h.raw(`</dl>`)
		return h.err
	})
}

// NoResults renders the empty-result message. term is sanitized text.
func NoResults(term string, tmpls *render.Templates) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if tmpls.HasNoResults() {
			err := tmpls.RenderNoResults(w, term)
			if err == nil {
				return nil
			}
			log.ForService("web").Warnf("custom no_results template failed, using default: %v", err)
		}
		h := &htmlWriter{w: w}
		h.raw(`<p class="no-results">No results found`)
		if term != "" {
			h.raw(" for <strong>")
			h.raw(term)
			h.raw("</strong>")
		}
		h.raw(".</p>")
		return h.err
	})
}

// ErrorMessage renders a load failure.
func ErrorMessage(msg string, tmpls *render.Templates) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if tmpls.HasError() {
			err := tmpls.RenderError(w, msg)
			if err == nil {
				return nil
			}
			log.ForService("web").Warnf("custom error template failed, using default: %v", err)
		}
		h := &htmlWriter{w: w}
		h.raw(`<div class="error" role="alert">`)
		h.text(msg)
		h.raw(`</div>`)
		return h.err
	})
}

// Pagination renders Previous, numbered pages and Next. Nothing is
// rendered when there is a single page.
func Pagination(p view.Page, link func(n int) string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !p.ShowPagination() {
			return nil
		}
		h := &htmlWriter{w: w}
		h.raw(`<nav class="pagination">`)
		if p.HasPrev() {
			h.raw(`<a class="prev"`)
			h.attr("href", link(p.Page-1))
			h.raw(`>Previous</a>`)
		}
		for _, n := range p.Pages() {
			if n == p.Page {
				h.raw(`<span class="current">`)
				h.text(strconv.Itoa(n))
				h.raw(`</span>`)
				continue
			}
			h.raw(`<a`)
			h.attr("href", link(n))
			h.raw(">")
			h.text(strconv.Itoa(n))
			h.raw(`</a>`)
		}
		if p.HasNext() {
			h.raw(`<a class="next"`)
			h.attr("href", link(p.Page+1))
			h.raw(`>Next</a>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

// SortLinks offers ascending and descending sorts for each sort field.
func SortLinks(data types.PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="sort">Sort by:`)
		for _, f := range data.SortFields {
			h.raw(` <span class="sort-field">`)
			h.text(view.Label(f))
			for _, dir := range []string{"asc", "desc"} {
				h.raw(` <a`)
				h.attr("href", SortURL(data, f, dir))
				if s := data.Results.Sort; s != nil && s.Field == f && s.Direction.String() == dir {
					h.raw(` class="active"`)
				}
				h.raw(">")
				if dir == "asc" {
					h.raw("&uarr;")
				} else {
					h.raw("&darr;")
				}
				h.raw(`</a>`)
			}
			h.raw(`</span>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// HTML is the view adapter that renders result fragments with the
// components above.
type HTML struct {
	Templates *render.Templates
	// Link builds pagination links. Nil disables pagination output.
	Link func(n int) string
}

func (a *HTML) Render(ctx context.Context, w io.Writer, p view.Page) error {
	var buf bytes.Buffer
	if err := Results(p, a.Templates).Render(ctx, &buf); err != nil {
		return err
	}
	if a.Link != nil {
		if err := Pagination(p, a.Link).Render(ctx, &buf); err != nil {
			return err
		}
	}
	_, err := buf.WriteTo(w)
	return err
}

func (a *HTML) RenderError(ctx context.Context, w io.Writer, err error) error {
	return ErrorMessage(err.Error(), a.Templates).Render(ctx, w)
}

var _ view.Adapter = (*HTML)(nil)
