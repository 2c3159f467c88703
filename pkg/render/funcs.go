package render

import (
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/xmlsearch/pkg/view"
)

// FormatTime renders t relative to now for recent times and as a date
// otherwise.
func FormatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		m := int(diff.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case diff < 24*time.Hour:
		h := int(diff.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	case diff < 7*24*time.Hour:
		d := int(diff.Hours() / 24)
		if d == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", d)
	default:
		return t.Format("Jan 2, 2006")
	}
}

// FormatDate formats an RFC 3339 field value with FormatTime. Other values
// are returned unchanged.
func FormatDate(value string) string {
	t, err := time.Parse(time.RFC3339, html.UnescapeString(value))
	if err != nil {
		return value
	}
	return FormatTime(t)
}

// Truncate shortens s to at most length runes, ending in "..." when cut.
func Truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	if length <= 3 {
		return string(r[:length])
	}
	return string(r[:length-3]) + "..."
}

// FieldValue returns the value of the named field of an item, or "".
func FieldValue(item view.Item, name string) string {
	for _, f := range item.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// GetTemplateFuncs returns the functions available to custom templates.
// Field values are sanitized and may hold highlight markers, so "safe" is
// the usual way to emit them.
func GetTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Values
		"safe":     func(s string) template.HTML { return template.HTML(s) },
		"field":    FieldValue,
		"unescape": html.UnescapeString,

		// Time
		"formatTime": FormatTime,
		"formatDate": FormatDate,

		// Text
		"truncate":  Truncate,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     func(s string) string { return cases.Title(language.English).String(s) },
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,
		"trim":      strings.TrimSpace,
		"join":      strings.Join,
		"printf":    fmt.Sprintf,

		"default": func(def, val interface{}) interface{} {
			if val == nil {
				return def
			}
			if s, ok := val.(string); ok && s == "" {
				return def
			}
			return val
		},
	}
}
