package recon

import (
	"strings"
)

// Serial-number column spellings seen across legacy uploads.
var serialSpellings = map[string]struct{}{
	"slno":         {},
	"sno":          {},
	"serial":       {},
	"serialno":     {},
	"serialnumber": {},
	"srno":         {},
}

// isSerialHeader reports whether a header is a serial-number column: a
// known spelling, or a normalized form containing both "sl" and "no".
func isSerialHeader(header string) bool {
	n := NormalizeHeader(header)
	if _, ok := serialSpellings[n]; ok {
		return true
	}
	return strings.Contains(n, "sl") && strings.Contains(n, "no")
}

// DedupeSerialColumns keeps only the first serial-number column in header
// order and drops subsequent ones. Dropped headers' values are not ported
// over; legacy inputs double-number rows and only the first counts.
func DedupeSerialColumns(headers []string) []string {
	out := make([]string, 0, len(headers))
	seenSerial := false
	for _, h := range headers {
		if isSerialHeader(h) {
			if seenSerial {
				continue
			}
			seenSerial = true
		}
		out = append(out, h)
	}
	return out
}

// ReorderAroundAnchor relocates the identity anchors and the merged columns
// so merged data always visually trails identity regardless of where the
// join inserted it. The anchors and all merged columns are removed from
// their current positions and re-appended as:
//
//	[attrAnchor, if present] [siteAnchor] [merged columns, original relative order]
//
// Headers not involved keep their relative order at the front. An empty
// siteAnchor or attrAnchor is skipped; merged columns absent from headers
// are ignored.
func ReorderAroundAnchor(headers []string, siteAnchor, attrAnchor string, merged []string) []string {
	moved := make(map[string]struct{}, len(merged)+2)
	if siteAnchor != "" {
		moved[siteAnchor] = struct{}{}
	}
	if attrAnchor != "" {
		moved[attrAnchor] = struct{}{}
	}
	mergedPresent := make([]string, 0, len(merged))
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	for _, m := range merged {
		if _, ok := present[m]; !ok {
			continue
		}
		if _, dup := moved[m]; dup {
			continue
		}
		moved[m] = struct{}{}
		mergedPresent = append(mergedPresent, m)
	}

	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if _, ok := moved[h]; ok {
			continue
		}
		out = append(out, h)
	}
	if attrAnchor != "" {
		if _, ok := present[attrAnchor]; ok {
			out = append(out, attrAnchor)
		}
	}
	if siteAnchor != "" {
		if _, ok := present[siteAnchor]; ok {
			out = append(out, siteAnchor)
		}
	}
	out = append(out, mergedPresent...)
	return out
}
