package record

import (
	"fmt"
	"strings"

	"github.com/rubiojr/xmlsearch/pkg/diag"
)

// Node is a raw structured entry: lookups of the first text value under a
// source element name.
type Node interface {
	First(name string) (string, bool)
}

type MapperConfig struct {
	Fields    FieldMap
	DateField string
	// DateFormat is a Go reference layout tried before the generic parser.
	DateFormat string
	// ParseDate overrides the parse strategy entirely.
	ParseDate DateParser
	Sink      diag.Sink
}

// Mapper converts raw nodes into records.
type Mapper struct {
	fields    FieldMap
	names     []string
	dateField string
	parseDate DateParser
	sink      diag.Sink
}

func NewMapper(cfg MapperConfig) (*Mapper, error) {
	if err := cfg.Fields.Validate(cfg.DateField); err != nil {
		return nil, fmt.Errorf("invalid field map: %w", err)
	}
	parse := cfg.ParseDate
	if parse == nil {
		parse = LayoutParser(cfg.DateFormat)
	}
	fields := make(FieldMap, len(cfg.Fields))
	for k, v := range cfg.Fields {
		fields[k] = v
	}
	return &Mapper{
		fields:    fields,
		names:     fields.Names(),
		dateField: cfg.DateField,
		parseDate: parse,
		sink:      diag.OrDiscard(cfg.Sink),
	}, nil
}

// Fields returns the logical field names in lexical order.
func (m *Mapper) Fields() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Map builds a record from n. Missing elements become empty strings. A
// date that cannot be parsed becomes null and is reported to the sink.
func (m *Mapper) Map(n Node) Record {
	values := make(map[string]Value, len(m.names))
	for _, logical := range m.names {
		text, _ := n.First(m.fields[logical])
		values[logical] = String(text)
	}

	if m.dateField != "" {
		if raw, ok := n.First(m.fields[m.dateField]); ok {
			values[m.dateField] = m.date(raw)
		}
	}
	return Record{fields: values}
}

func (m *Mapper) date(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return Null()
	}
	t, err := m.parseDate(raw)
	if err != nil {
		m.sink.Report(diag.FieldError(m.dateField, fmt.Sprintf("cannot parse date %q", raw), err))
		return Null()
	}
	return Date(t)
}
