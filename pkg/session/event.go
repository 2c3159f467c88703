package session

import (
	"encoding/json"
	"fmt"

	"github.com/rubiojr/xmlsearch/pkg/engine"
)

// Event is a UI interaction that changes the state.
type Event interface {
	apply(s *State)
}

type PageChanged struct {
	Page int
}

type SortChanged struct {
	// Field is the field to sort by. Empty clears the sort.
	Field     string
	Direction engine.Direction
}

type SearchTermChanged struct {
	Term string
}

func (e PageChanged) apply(s *State) { s.SetPage(e.Page) }

func (e SortChanged) apply(s *State) {
	if e.Field == "" {
		s.ClearSort()
		return
	}
	s.SetSortField(e.Field, e.Direction)
}

func (e SearchTermChanged) apply(s *State) { s.SetSearchTerm(e.Term) }

// Apply changes the state according to ev.
func (s *State) Apply(ev Event) {
	if ev == nil {
		return
	}
	ev.apply(s)
}

type wireEvent struct {
	Type      string `json:"type"`
	Page      int    `json:"page,omitempty"`
	Field     string `json:"field,omitempty"`
	Direction string `json:"direction,omitempty"`
	Term      string `json:"term"`
}

// DecodeEvent parses a JSON event as sent by live clients:
//
//	{"type":"page","page":2}
//	{"type":"sort","field":"title","direction":"desc"}
//	{"type":"search","term":"apple"}
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	switch w.Type {
	case "page":
		return PageChanged{Page: w.Page}, nil
	case "sort":
		dir, err := engine.ParseDirection(w.Direction)
		if err != nil {
			return nil, err
		}
		return SortChanged{Field: w.Field, Direction: dir}, nil
	case "search":
		return SearchTermChanged{Term: w.Term}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", w.Type)
	}
}
