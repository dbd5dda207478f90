package recon

import (
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
)

// JoinOnSiteKey left-joins one column group of a secondary dataset into the
// primary dataset on the normalized site code.
//
// The secondary is scanned once to build a key index. When a site code
// repeats in the secondary, the row with a non-empty value under the
// group's date header beats one with an empty value; otherwise the
// first-seen row is kept (stable, left to right).
//
// Every primary row receives every member header: the matched secondary's
// value, or "" when no secondary row matches. Uniform columns across all
// rows is an invariant the filter and export layers rely on.
//
// O(|secondary.Rows| + |primary.Rows|).
func JoinOnSiteKey(primary tabular.Dataset, primaryKey string, secondary tabular.Dataset, secondaryKey string, group tabular.ColumnGroup) tabular.Dataset {
	index := make(map[string]tabular.Row, len(secondary.Rows))
	for _, row := range secondary.Rows {
		key := NormalizeSiteKey(row.Get(secondaryKey))
		if key == "" {
			continue
		}
		existing, seen := index[key]
		if !seen {
			index[key] = row
			continue
		}
		if group.DateHeader != "" && existing.Get(group.DateHeader) == "" && row.Get(group.DateHeader) != "" {
			index[key] = row
		}
	}

	out := primary.Clone()
	for _, header := range group.MemberHeaders {
		if !out.HasHeader(header) {
			out.Headers = append(out.Headers, header)
		}
	}
	for _, row := range out.Rows {
		match := index[NormalizeSiteKey(row.Get(primaryKey))]
		for _, header := range group.MemberHeaders {
			row[header] = match.Get(header)
		}
	}
	return out
}
