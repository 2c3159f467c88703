package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the page shell.
func Layout(title, version string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		h.raw("<title>")
		h.text(title)
		h.raw("</title><link rel=\"stylesheet\" href=\"/static/style.css\"></head><body><main class=\"container\">")
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw("</main><footer class=\"footer\">xmlsearch")
		if version != "" {
			h.raw(" v")
			h.text(version)
		}
		h.raw("</footer></body></html>")
		return h.err
	})
}
