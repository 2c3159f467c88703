package view

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rubiojr/xmlsearch/pkg/highlight"
)

type styles struct {
	title   lipgloss.Style
	item    lipgloss.Style
	label   lipgloss.Style
	mark    lipgloss.Style
	meta    lipgloss.Style
	noData  lipgloss.Style
	errText lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0),
		item: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2),
		label: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")),
		mark: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")),
		meta: r.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
		noData: r.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0),
		errText: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
	}
}

// Terminal renders pages for a terminal. Highlight markers become styled
// text and entities are unescaped.
type Terminal struct {
	Open  string
	Close string
}

// NewTerminal returns a terminal adapter for the default <mark> markers.
func NewTerminal() *Terminal {
	return &Terminal{Open: highlight.DefaultOpen, Close: highlight.DefaultClose}
}

func (t *Terminal) Render(ctx context.Context, w io.Writer, p Page) error {
	st := newStyles(lipgloss.NewRenderer(w))
	var out strings.Builder

	title := fmt.Sprintf("%d results", p.Total)
	if p.Total == 1 {
		title = "1 result"
	}
	if p.Term != "" {
		title += fmt.Sprintf(" for %q", html.UnescapeString(p.Term))
	}
	out.WriteString(st.title.Render(title))
	out.WriteString("\n")

	if p.Empty() {
		msg := "No results found."
		if p.Term != "" {
			msg = fmt.Sprintf("No results found for %q.", html.UnescapeString(p.Term))
		}
		out.WriteString(st.noData.Render(msg))
		out.WriteString("\n")
		_, err := io.WriteString(w, out.String())
		return err
	}

	for _, item := range p.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		var body strings.Builder
		for i, f := range item.Fields {
			if i > 0 {
				body.WriteString("\n")
			}
			body.WriteString(st.label.Render(f.Label + ":"))
			body.WriteString(" ")
			body.WriteString(t.restyle(f.Value, st.mark))
		}
		out.WriteString(st.item.Render(body.String()))
		out.WriteString("\n")
	}

	if p.ShowPagination() {
		out.WriteString(st.meta.Render(fmt.Sprintf("Page %d of %d", p.Page, p.TotalPages)))
		out.WriteString("\n")
	}
	if p.Sort != nil {
		out.WriteString(st.meta.Render("Sorted by " + p.Sort.String()))
		out.WriteString("\n")
	}

	_, err := io.WriteString(w, out.String())
	return err
}

func (t *Terminal) RenderError(ctx context.Context, w io.Writer, err error) error {
	st := newStyles(lipgloss.NewRenderer(w))
	_, werr := io.WriteString(w, st.errText.Render("Error: "+err.Error())+"\n")
	return werr
}

// restyle replaces marker pairs in a sanitized value with styled text and
// unescapes everything else.
func (t *Terminal) restyle(value string, mark lipgloss.Style) string {
	open, closing := t.Open, t.Close
	if open == "" || closing == "" {
		return html.UnescapeString(value)
	}
	var b strings.Builder
	rest := value
	for {
		i := strings.Index(rest, open)
		if i < 0 {
			b.WriteString(html.UnescapeString(rest))
			break
		}
		j := strings.Index(rest[i+len(open):], closing)
		if j < 0 {
			b.WriteString(html.UnescapeString(rest))
			break
		}
		b.WriteString(html.UnescapeString(rest[:i]))
		b.WriteString(mark.Render(html.UnescapeString(rest[i+len(open) : i+len(open)+j])))
		rest = rest[i+len(open)+j+len(closing):]
	}
	return b.String()
}
