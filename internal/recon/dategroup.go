package recon

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
)

// Date patterns embedded in header text, tried in order: day-first wins
// over year-first when both could read the digits.
var (
	dayFirstPattern  = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{4})`)
	yearFirstPattern = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
)

// ParseHeaderDate extracts a calendar date embedded in a header string.
// D-M-YYYY is tried before YYYY-M-D; an impossible date (month 13, day 40)
// fails that pattern and the next one gets a chance.
func ParseHeaderDate(header string) (time.Time, bool) {
	if m := dayFirstPattern.FindStringSubmatch(header); m != nil {
		if t, ok := buildDate(m[3], m[2], m[1]); ok {
			return t, true
		}
	}
	if m := yearFirstPattern.FindStringSubmatch(header); m != nil {
		if t, ok := buildDate(m[1], m[2], m[3]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func buildDate(year, month, day string) (time.Time, bool) {
	t, err := time.Parse("2006-1-2", year+"-"+month+"-"+day)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// isDateHeader reports whether a header encodes a dated snapshot marker:
// its normalized form mentions "date" or "time" and a date parses out of it.
func isDateHeader(header string) (time.Time, bool) {
	n := NormalizeHeader(header)
	if !strings.Contains(n, "date") && !strings.Contains(n, "time") {
		return time.Time{}, false
	}
	return ParseHeaderDate(header)
}

// GroupDateColumns scans a dataset's headers for dated column groups. Each
// detected date header owns every header positioned after it up to the next
// date header (or the end), excluding the site-code header when it falls in
// that range.
//
// When no date header exists at all, a single synthetic group is emitted
// whose members are the resolved device-status, switch-status, and
// days-offline columns, so downstream merging degrades gracefully.
func GroupDateColumns(headers []string, siteHeader string) []tabular.ColumnGroup {
	type marker struct {
		index int
		date  time.Time
	}
	var markers []marker
	for i, h := range headers {
		if d, ok := isDateHeader(h); ok {
			markers = append(markers, marker{index: i, date: d})
		}
	}

	if len(markers) == 0 {
		return []tabular.ColumnGroup{syntheticGroup(headers)}
	}

	groups := make([]tabular.ColumnGroup, 0, len(markers))
	for mi, m := range markers {
		end := len(headers)
		if mi+1 < len(markers) {
			end = markers[mi+1].index
		}
		var members []string
		for i := m.index + 1; i < end; i++ {
			if headers[i] == siteHeader {
				continue
			}
			members = append(members, headers[i])
		}
		groups = append(groups, tabular.ColumnGroup{
			DateHeader:    headers[m.index],
			Date:          m.date,
			HeaderIndex:   m.index,
			MemberHeaders: members,
		})
	}
	return groups
}

func syntheticGroup(headers []string) tabular.ColumnGroup {
	var members []string
	if h, ok := ResolveHeader(headers, DeviceStatusCandidates, "device", "status"); ok {
		members = append(members, h)
	}
	if h, ok := ResolveHeader(headers, SwitchStatusCandidates, "switch", "status"); ok {
		members = append(members, h)
	}
	if h, ok := ResolveHeader(headers, DaysOfflineCandidates, "days", "offline"); ok {
		members = append(members, h)
	}
	return tabular.ColumnGroup{HeaderIndex: -1, MemberHeaders: members}
}

// SelectLatestGroup picks the chronologically latest column group. When two
// groups share a date, the one appearing later in the file wins: re-exports
// append corrected snapshots at the end. Returns nil for empty input.
//
// Non-selected dated groups stay in the raw dataset; only the latest is
// merged into the primary view.
func SelectLatestGroup(groups []tabular.ColumnGroup) *tabular.ColumnGroup {
	if len(groups) == 0 {
		return nil
	}
	sorted := make([]tabular.ColumnGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].HeaderIndex > sorted[j].HeaderIndex
	})
	return &sorted[0]
}
