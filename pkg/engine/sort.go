package engine

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rubiojr/xmlsearch/pkg/record"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts asc, ascending, desc and descending in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction %q", s)
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Sort is a sort configuration: one field and a direction.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

func (s *Sort) String() string {
	if s == nil {
		return "none"
	}
	return s.Field + " " + s.Direction.String()
}

// sortRecords stably orders recs in place by the lower-cased text of field.
func sortRecords(recs []record.Record, s Sort) {
	col := collate.New(language.Und)
	keys := make([]string, len(recs))
	idx := make([]int, len(recs))
	for i, r := range recs {
		idx[i] = i
		keys[i] = strings.ToLower(r.Get(s.Field).Text())
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		if s.Direction == Descending {
			return col.CompareString(keys[b], keys[a])
		}
		return col.CompareString(keys[a], keys[b])
	})
	sorted := make([]record.Record, len(recs))
	for i, j := range idx {
		sorted[i] = recs[j]
	}
	copy(recs, sorted)
}
