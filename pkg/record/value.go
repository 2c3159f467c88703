package record

import (
	"encoding/json"
	"time"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is a single field value: a string, a date-time or null.
type Value struct {
	kind Kind
	str  string
	date time.Time
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Date stores t in UTC.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t.UTC()}
}

func Null() Value {
	return Value{}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text is the string representation used for matching, sorting and
// display. Null is "", dates are RFC 3339 so they sort chronologically.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindDate:
		return v.date.Format(time.RFC3339)
	default:
		return ""
	}
}

// Time returns the date of a date value.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

func (v Value) String() string {
	return v.Text()
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindDate:
		return json.Marshal(v.date)
	default:
		return []byte("null"), nil
	}
}
