// Package record holds the typed records the result engine works on and
// the mapper that builds them from raw structured nodes.
package record

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Record maps logical field names to values. Records are immutable once
// built.
type Record struct {
	fields map[string]Value
}

// New builds a record from fields. The map is copied.
func New(fields map[string]Value) Record {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Record{fields: cp}
}

// FromStrings is a convenience for building string-only records.
func FromStrings(fields map[string]string) Record {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = String(v)
	}
	return Record{fields: cp}
}

// Get returns the value of name, or null when the field is absent.
func (r Record) Get(name string) Value {
	return r.fields[name]
}

func (r Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Names returns the field names in lexical order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r.fields))
	for k := range r.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r Record) Len() int {
	return len(r.fields)
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}

// FieldMap maps logical field names to source element names.
type FieldMap map[string]string

// Validate checks that every entry names a source element and that a
// designated date field is one of the logical names.
func (m FieldMap) Validate(dateField string) error {
	for logical, source := range m {
		if logical == "" {
			return fmt.Errorf("field map has an empty logical name")
		}
		if source == "" {
			return fmt.Errorf("field %q has an empty source name", logical)
		}
	}
	if dateField != "" {
		if _, ok := m[dateField]; !ok {
			return fmt.Errorf("date field %q is not in the field map", dateField)
		}
	}
	return nil
}

// Names returns the logical names in lexical order.
func (m FieldMap) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
