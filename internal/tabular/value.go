package tabular

import (
	"strconv"
	"time"
)

// Kind identifies the fundamental type of a cell value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// DateLayout is the canonical date format for all pipeline inputs and
// outputs.
const DateLayout = "2006-01-02"

// Value is a single typed cell. The zero Value is missing, which keeps
// freshly allocated rows safe to read before they are filled.
type Value struct {
	kind  Kind
	valid bool
	str   string
	num   float64
	date  time.Time
}

// String constructs a string cell. An empty string is missing.
func String(s string) Value {
	if s == "" {
		return Value{kind: KindString}
	}
	return Value{kind: KindString, valid: true, str: s}
}

// Number constructs a numeric cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, valid: true, num: f}
}

// Date constructs a date cell, truncated to day precision in UTC.
func Date(t time.Time) Value {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Value{kind: KindDate, valid: true, date: d}
}

// Missing constructs the distinguished missing marker.
func Missing() Value {
	return Value{}
}

// IsMissing reports whether the cell holds no usable value.
func (v Value) IsMissing() bool { return !v.valid }

// Kind returns the cell's fundamental type.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string content, or "" when the cell is missing or not a
// string.
func (v Value) Str() string {
	if !v.valid || v.kind != KindString {
		return ""
	}
	return v.str
}

// Float returns the numeric content and whether it is present.
func (v Value) Float() (float64, bool) {
	if !v.valid || v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Time returns the date content and whether it is present.
func (v Value) Time() (time.Time, bool) {
	if !v.valid || v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// Render formats the cell for CSV and display output. Missing cells render
// as the empty string so downstream readers see a gap, not a zero.
func (v Value) Render() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return v.str
	}
}

// key returns a canonical representation used for join and group keys.
// Missing cells have no key and never match anything.
func (v Value) key() (string, bool) {
	if !v.valid {
		return "", false
	}
	return v.Render(), true
}

// Equal reports whether two cells hold the same value. Two missing cells are
// equal regardless of kind.
func (v Value) Equal(o Value) bool {
	if !v.valid && !o.valid {
		return true
	}
	if v.valid != o.valid || v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return v.str == o.str
	}
}
