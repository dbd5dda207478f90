// Package recon implements the multi-source tabular reconciliation engine:
// header resolution, dated column-group detection, site-key joining, header
// surgery, and the display filter pipeline. Every page builds its merged
// view through the single pipeline in this package.
package recon

import (
	"strings"
)

// Canonical candidate spellings for the semantic columns the pages resolve.
// Datasets arrive with whatever spelling the field teams used that month.
var (
	SiteCodeCandidates = []string{
		"site code", "sitecode", "site_code", "site-code", "site id", "siteid",
		"device code", "rmu code", "rtu code",
	}
	AttributeCandidates = []string{
		"attribute", "attributes", "device attribute", "rmu attribute",
	}
	DeviceStatusCandidates = []string{
		"device status", "devicestatus", "device_status", "rtu status", "rmu status",
	}
	SwitchStatusCandidates = []string{
		"switch status", "switchstatus", "switch_status",
	}
	DaysOfflineCandidates = []string{
		"days offline", "daysoffline", "days_offline", "no of days offline",
		"offline days",
	}
	DivisionCandidates = []string{
		"division", "division name",
	}
	SubDivisionCandidates = []string{
		"sub division", "subdivision", "sub_division", "sub-division",
	}
	CircleCandidates = []string{
		"circle", "circle name",
	}
)

// NormalizeHeader reduces a header to its comparison form: trimmed,
// lower-cased, with underscores, hyphens, dots, and whitespace removed.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	var b strings.Builder
	b.Grow(len(h))
	for _, r := range h {
		switch r {
		case '_', '-', '.', ' ', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeSiteKey reduces a site code to its join-key form. Comparison
// only; display always uses the primary dataset's original value.
func NormalizeSiteKey(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		switch r {
		case '_', '-', '.', ' ', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ResolveHeader finds the literal header spelling a dataset uses for a
// semantic field. Pass 1 matches the normalized header against the
// candidate list exactly; pass 2 falls back to a substring heuristic where
// the normalized header must contain every element of parts. The first
// header in original dataset order satisfying either rule wins.
//
// A false return means the feature is unavailable for this dataset; callers
// skip, they do not raise.
func ResolveHeader(headers []string, candidates []string, parts ...string) (string, bool) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	candSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candSet[NormalizeHeader(c)] = struct{}{}
	}
	for i, n := range normalized {
		if _, ok := candSet[n]; ok {
			return headers[i], true
		}
	}

	if len(parts) == 0 {
		return "", false
	}
	normParts := make([]string, len(parts))
	for i, p := range parts {
		normParts[i] = NormalizeHeader(p)
	}
	for i, n := range normalized {
		all := true
		for _, p := range normParts {
			if !strings.Contains(n, p) {
				all = false
				break
			}
		}
		if all {
			return headers[i], true
		}
	}
	return "", false
}

// ResolveSiteCode resolves the site-code column, the natural join key.
func ResolveSiteCode(headers []string) (string, bool) {
	return ResolveHeader(headers, SiteCodeCandidates, "site", "code")
}
