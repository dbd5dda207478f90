package uploads

import (
	"strings"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
)

// normalizeName reduces a filename for pattern matching: lower-cased with
// hyphens, underscores, dots, and spaces removed, so "Online_Offline Data",
// "online-offline-data" and "ONLINEOFFLINE.xlsx" all match.
func normalizeName(name string) string {
	name = strings.ToLower(name)
	replacer := strings.NewReplacer("-", "", "_", "", ".", "", " ", "")
	return replacer.Replace(name)
}

// ClassifyUpload resolves the role an upload plays in the merge: the
// explicit type tag when present, else a filename-pattern fallback.
func ClassifyUpload(meta tracker.UploadMeta) tracker.UploadType {
	switch meta.UploadType {
	case tracker.UploadDeviceStatus, tracker.UploadOnlineOffline, tracker.UploadRtuTracker:
		return meta.UploadType
	}

	n := normalizeName(meta.Name)
	switch {
	case strings.Contains(n, "onlineoffline"):
		return tracker.UploadOnlineOffline
	case strings.Contains(n, "rtutracker"):
		return tracker.UploadRtuTracker
	case strings.Contains(n, "devicestatus"):
		return tracker.UploadDeviceStatus
	}
	return ""
}

// FindLatestUpload picks the most recently uploaded file classified as the
// wanted type. False when no upload matches.
func FindLatestUpload(metas []tracker.UploadMeta, want tracker.UploadType) (tracker.UploadMeta, bool) {
	var (
		best  tracker.UploadMeta
		found bool
	)
	for _, m := range metas {
		if ClassifyUpload(m) != want {
			continue
		}
		if !found || m.UploadedAt.After(best.UploadedAt) {
			best = m
			found = true
		}
	}
	return best, found
}
