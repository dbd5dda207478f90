// Package tabular holds the value types shared by every reconciliation
// stage: a wide spreadsheet dataset, its rows, and the dated column groups
// detected inside it. The types are deliberately dependency-free.
package tabular

import "time"

// Row represents one spreadsheet row as header-literal keyed string values.
type Row map[string]string

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Get returns the value for a header, treating absence as empty string.
func (r Row) Get(header string) string {
	if r == nil {
		return ""
	}
	return r[header]
}

// Dataset represents a complete uploaded spreadsheet.
// Headers order is significant: it drives display and anchor logic.
type Dataset struct {
	Headers []string
	Rows    []Row
}

// Clone deep-copies the dataset so merge stages never mutate a fetched copy.
func (d Dataset) Clone() Dataset {
	headers := make([]string, len(d.Headers))
	copy(headers, d.Headers)
	rows := make([]Row, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = r.Clone()
	}
	return Dataset{Headers: headers, Rows: rows}
}

// HasHeader reports whether the literal header exists in the dataset.
func (d Dataset) HasHeader(header string) bool {
	for _, h := range d.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// ColumnGroup is one time-stamped snapshot inside a dated dataset: a date
// header plus the contiguous non-date columns that follow it.
type ColumnGroup struct {
	DateHeader    string
	Date          time.Time
	HeaderIndex   int
	MemberHeaders []string
}

// IsSynthetic reports whether the group is the fallback emitted when a
// dataset carries no date headers at all.
func (g ColumnGroup) IsSynthetic() bool {
	return g.DateHeader == "" && g.Date.IsZero()
}
