package uploads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
)

func TestClassifyUploadExplicitTypeWins(t *testing.T) {
	meta := tracker.UploadMeta{Name: "random.xlsx", UploadType: tracker.UploadRtuTracker}
	assert.Equal(t, tracker.UploadRtuTracker, ClassifyUpload(meta))
}

func TestClassifyUploadFilenameFallback(t *testing.T) {
	tests := []struct {
		name string
		want tracker.UploadType
	}{
		{"online-offline-data-jan.xlsx", tracker.UploadOnlineOffline},
		{"Online_Offline Data.xlsx", tracker.UploadOnlineOffline},
		{"ONLINEOFFLINE.csv", tracker.UploadOnlineOffline},
		{"rtu-tracker-2025.xlsx", tracker.UploadRtuTracker},
		{"RTU_Tracker Sheet.xlsx", tracker.UploadRtuTracker},
		{"Device Status Upload.xlsx", tracker.UploadDeviceStatus},
		{"feeder-list.xlsx", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyUpload(tracker.UploadMeta{Name: tt.name})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindLatestUpload(t *testing.T) {
	metas := []tracker.UploadMeta{
		{FileID: "old", Name: "rtu tracker old.xlsx", UploadedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{FileID: "new", Name: "rtu-tracker-new.xlsx", UploadedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{FileID: "other", Name: "online-offline.xlsx", UploadedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	got, ok := FindLatestUpload(metas, tracker.UploadRtuTracker)
	require.True(t, ok)
	assert.Equal(t, "new", string(got.FileID))

	_, ok = FindLatestUpload(metas, tracker.UploadDeviceStatus)
	assert.False(t, ok)
}

func TestDedupOfflineSitesKeepsMostRecentlyUpdated(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	sites := []tracker.OfflineSite{
		{SiteCode: "A", UpdatedAt: old},
		{SiteCode: "B", UpdatedAt: old},
		{SiteCode: "A", UpdatedAt: fresh},
	}
	got := DedupOfflineSites(sites)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].SiteCode)
	assert.True(t, fresh.Equal(got[0].UpdatedAt))
	assert.Equal(t, "B", got[1].SiteCode)
}

func TestDedupOfflineSitesFallsBackToCreatedAt(t *testing.T) {
	sites := []tracker.OfflineSite{
		{SiteCode: "A", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{SiteCode: "A", CreatedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	got := DedupOfflineSites(sites)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].CreatedAt.Day())
}
