package api

import (
	"time"

	"github.com/rubiojr/xmlsearch/pkg/engine"
	"github.com/rubiojr/xmlsearch/pkg/record"
	"github.com/rubiojr/xmlsearch/pkg/search"
	"github.com/rubiojr/xmlsearch/pkg/session"
	"github.com/rubiojr/xmlsearch/pkg/view"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SearchResponse carries one result page. Items hold the sanitized,
// highlighted display fields; Records hold the raw typed values.
type SearchResponse struct {
	Term       string          `json:"term"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	HasPrev    bool            `json:"has_prev"`
	HasNext    bool            `json:"has_next"`
	Sort       *engine.Sort    `json:"sort,omitempty"`
	State      search.State    `json:"state"`
	Items      []view.Item     `json:"items"`
	Records    []record.Record `json:"records"`
}

// NewSearchResponse converts search results to the JSON response.
func NewSearchResponse(res *search.Results) SearchResponse {
	p := res.Page
	recs := res.View.Items
	if recs == nil {
		recs = []record.Record{}
	}
	return SearchResponse{
		Term:       p.Term,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
		Sort:       p.Sort,
		State:      res.State,
		Items:      p.Items,
		Records:    recs,
	}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Live message types.
const (
	MessageInit  = "init"
	MessageView  = "view"
	MessageError = "error"
)

// LiveMessage is sent to live session clients.
type LiveMessage struct {
	Type    string          `json:"type"`
	Session string          `json:"session"`
	State   *session.State  `json:"state,omitempty"`
	Results *SearchResponse `json:"results,omitempty"`
	// Reason says what triggered a view message: "event" or "reload".
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}
