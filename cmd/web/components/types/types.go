package types

import (
	"github.com/rubiojr/xmlsearch/pkg/search"
	"github.com/rubiojr/xmlsearch/pkg/session"
	"github.com/rubiojr/xmlsearch/pkg/view"
)

// PageData represents data passed to templates
type PageData struct {
	Title string
	// State is the session state the page was rendered for. Pagination
	// links are derived from it.
	State          *session.State
	SessionOptions session.Options
	Results        view.Page
	// SortFields are offered as sort links.
	SortFields []string
	// Error is the load failure message, empty when the load succeeded.
	Error   string
	Status  search.Status
	Version string // Application version (for footer display)
}

// Loading reports whether the first load has not finished yet.
func (d PageData) Loading() bool {
	return d.Status.State == search.StateLoading
}
