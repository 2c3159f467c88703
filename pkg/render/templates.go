// Package render parses the user supplied html/templates that replace the
// default item, no-results and error components of the web UI.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/rubiojr/xmlsearch/pkg/config"
	"github.com/rubiojr/xmlsearch/pkg/view"
)

// NoResultsData is passed to the no_results template.
type NoResultsData struct {
	// Term is sanitized text; html/template escapes it again on output
	// unless passed through "safe".
	Term template.HTML
}

// Templates holds the parsed custom templates. Nil fields mean the default
// component is used.
type Templates struct {
	item      *template.Template
	noResults *template.Template
	errorTmpl *template.Template
}

// Parse parses every non-empty template source in cfg.
func Parse(cfg config.TemplatesConfig) (*Templates, error) {
	t := &Templates{}
	var err error
	if t.item, err = parse("item", cfg.Item); err != nil {
		return nil, err
	}
	if t.noResults, err = parse("no_results", cfg.NoResults); err != nil {
		return nil, err
	}
	if t.errorTmpl, err = parse("error", cfg.Error); err != nil {
		return nil, err
	}
	return t, nil
}

func parse(name, src string) (*template.Template, error) {
	if src == "" {
		return nil, nil
	}
	tmpl, err := template.New(name).Funcs(GetTemplateFuncs()).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	return tmpl, nil
}

func (t *Templates) HasItem() bool      { return t != nil && t.item != nil }
func (t *Templates) HasNoResults() bool { return t != nil && t.noResults != nil }
func (t *Templates) HasError() bool     { return t != nil && t.errorTmpl != nil }

// RenderItem executes the item template with item.
func (t *Templates) RenderItem(w io.Writer, item view.Item) error {
	return execute(w, t.item, item)
}

// RenderNoResults executes the no_results template. term is the sanitized
// search term.
func (t *Templates) RenderNoResults(w io.Writer, term string) error {
	return execute(w, t.noResults, NoResultsData{Term: template.HTML(term)})
}

// RenderError executes the error template with the error message.
func (t *Templates) RenderError(w io.Writer, msg string) error {
	return execute(w, t.errorTmpl, msg)
}

// execute renders into a buffer first so a failing template writes nothing.
func execute(w io.Writer, tmpl *template.Template, data any) error {
	if tmpl == nil {
		return fmt.Errorf("template not configured")
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing %s template: %w", tmpl.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
