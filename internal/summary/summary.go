// Package summary computes the fleet-level header figures shown above the
// device-status table.
package summary

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/recon"
)

// FleetSummary aggregates the merged device-status rows.
type FleetSummary struct {
	TotalSites        int     `json:"totalSites"`
	OnlineSites       int     `json:"onlineSites"`
	OfflineSites      int     `json:"offlineSites"`
	UnknownSites      int     `json:"unknownSites"`
	MeanDaysOffline   float64 `json:"meanDaysOffline"`
	MedianDaysOffline float64 `json:"medianDaysOffline"`
	P90DaysOffline    float64 `json:"p90DaysOffline"`
}

// Compute tallies online/offline counts and the days-offline distribution
// over the merged rows. Rows whose status column is missing or unrecognized
// count as unknown; unparsable days-offline cells are skipped, not errors.
func Compute(ds tabular.Dataset) FleetSummary {
	out := FleetSummary{TotalSites: len(ds.Rows)}

	statusHeader, hasStatus := recon.ResolveHeader(ds.Headers, recon.DeviceStatusCandidates, "device", "status")
	daysHeader, hasDays := recon.ResolveHeader(ds.Headers, recon.DaysOfflineCandidates, "days", "offline")

	var days []float64
	for _, row := range ds.Rows {
		if hasStatus {
			switch classifyStatus(row.Get(statusHeader)) {
			case statusOnline:
				out.OnlineSites++
			case statusOffline:
				out.OfflineSites++
			default:
				out.UnknownSites++
			}
		} else {
			out.UnknownSites++
		}
		if hasDays {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row.Get(daysHeader)), 64); err == nil && v >= 0 {
				days = append(days, v)
			}
		}
	}

	if len(days) > 0 {
		out.MeanDaysOffline, _ = stats.Mean(days)
		out.MedianDaysOffline, _ = stats.Median(days)
		out.P90DaysOffline, _ = stats.Percentile(days, 90)
	}
	return out
}

type statusClass int

const (
	statusUnknown statusClass = iota
	statusOnline
	statusOffline
)

func classifyStatus(value string) statusClass {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return statusUnknown
	case strings.Contains(v, "online") || v == "on" || v == "up":
		return statusOnline
	case strings.Contains(v, "offline") || v == "off" || v == "down":
		return statusOffline
	default:
		return statusUnknown
	}
}
