package recon

import (
	"strings"
	"time"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
)

// TimeRangeKind selects the time-window predicate applied to merged rows.
type TimeRangeKind string

const (
	TimeRangeAll       TimeRangeKind = "all"
	TimeRangeToday     TimeRangeKind = "today"
	TimeRangeThisWeek  TimeRangeKind = "this_week"
	TimeRangeThisMonth TimeRangeKind = "this_month"
	TimeRangeCustom    TimeRangeKind = "custom"
)

// FieldSelection is one multi-select categorical filter: a semantic field
// name and the values chosen for it. An empty value set passes everything
// ("select nothing" means "select all").
type FieldSelection struct {
	Field  string
	Values []string
}

// FilterState is the full UI filter state a page hands to ApplyFilters.
// The zero value passes every row through unchanged.
type FilterState struct {
	Selections   []FieldSelection
	Search       string
	SearchFields []string
	TimeRange    TimeRangeKind
	DateField    string
	From         *time.Time
	To           *time.Time

	// Now anchors the relative ranges; zero means the wall clock.
	Now time.Time
}

// Row-level date value layouts, day-first before year-first, then the
// generic fallbacks.
var rowDateLayouts = []string{
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"02-01-2006 15:04:05",
}

// ParseRowDate parses a cell value into a date, trying DD-MM-YYYY before
// YYYY-MM-DD and then generic layouts. The result is normalized to
// midnight. False means the value carries no usable date.
func ParseRowDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range rowDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return core.Midnight(t), true
		}
	}
	return time.Time{}, false
}

// ApplyFilters returns the rows passing every active filter. Pure: the
// input slice is never mutated. A filter whose target field cannot be
// resolved in headers is a no-op, never an error.
func ApplyFilters(rows []tabular.Row, headers []string, state FilterState) []tabular.Row {
	preds := buildPredicates(headers, state)
	if len(preds) == 0 {
		return rows
	}
	out := make([]tabular.Row, 0, len(rows))
	for _, row := range rows {
		pass := true
		for _, p := range preds {
			if !p(row) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, row)
		}
	}
	return out
}

type rowPredicate func(tabular.Row) bool

func buildPredicates(headers []string, state FilterState) []rowPredicate {
	var preds []rowPredicate

	for _, sel := range state.Selections {
		if len(sel.Values) == 0 {
			continue
		}
		header, ok := ResolveHeader(headers, []string{sel.Field}, strings.Fields(sel.Field)...)
		if !ok {
			continue
		}
		wanted := make(map[string]struct{}, len(sel.Values))
		for _, v := range sel.Values {
			wanted[NormalizeHeader(v)] = struct{}{}
		}
		preds = append(preds, func(row tabular.Row) bool {
			_, ok := wanted[NormalizeHeader(row.Get(header))]
			return ok
		})
	}

	if term := strings.ToLower(strings.TrimSpace(state.Search)); term != "" {
		fields := resolveSearchFields(headers, state.SearchFields)
		preds = append(preds, func(row tabular.Row) bool {
			for _, f := range fields {
				if strings.Contains(strings.ToLower(row.Get(f)), term) {
					return true
				}
			}
			return false
		})
	}

	if p := buildTimeRangePredicate(headers, state); p != nil {
		preds = append(preds, p)
	}

	return preds
}

// resolveSearchFields maps the configured semantic search fields onto the
// literal headers this dataset uses; unresolved fields are dropped (an
// absent field behaves as an empty string, so searching it is pointless).
func resolveSearchFields(headers []string, fields []string) []string {
	if len(fields) == 0 {
		return headers
	}
	var out []string
	for _, f := range fields {
		if h, ok := ResolveHeader(headers, []string{f}, strings.Fields(f)...); ok {
			out = append(out, h)
		}
	}
	return out
}

func buildTimeRangePredicate(headers []string, state FilterState) rowPredicate {
	if state.TimeRange == "" || state.TimeRange == TimeRangeAll {
		return nil
	}
	if state.TimeRange == TimeRangeCustom && state.From == nil && state.To == nil {
		return nil
	}
	dateHeader, ok := ResolveHeader(headers, []string{state.DateField}, strings.Fields(state.DateField)...)
	if !ok {
		return nil
	}

	now := state.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := core.Midnight(now)

	var from, to time.Time
	switch state.TimeRange {
	case TimeRangeToday:
		from, to = today, today
	case TimeRangeThisWeek:
		// Week runs from the most recent Sunday through today, inclusive.
		from = today.AddDate(0, 0, -int(today.Weekday()))
		to = today
	case TimeRangeThisMonth:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		to = today
	case TimeRangeCustom:
		if state.From != nil {
			from = core.Midnight(*state.From)
		}
		if state.To != nil {
			to = core.Midnight(*state.To)
		}
	default:
		return nil
	}

	return func(row tabular.Row) bool {
		d, ok := ParseRowDate(row.Get(dateHeader))
		if !ok {
			return false
		}
		if !from.IsZero() && d.Before(from) {
			return false
		}
		if !to.IsZero() && d.After(to) {
			return false
		}
		return true
	}
}
