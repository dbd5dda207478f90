package ports

import (
	"context"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
)

// UploadServicePort is the upload collaborator every page talks to.
// Fetches are strictly sequential per page load: later calls depend on
// identifiers discovered by earlier ones.
type UploadServicePort interface {
	// ListUploads returns metadata for every uploaded spreadsheet,
	// newest first.
	ListUploads(ctx context.Context) ([]tracker.UploadMeta, error)

	// GetUpload returns the full dataset for one uploaded file.
	GetUpload(ctx context.Context, fileID core.UploadID) (tabular.Dataset, error)

	// SaveRows writes edited rows back to an uploaded file.
	SaveRows(ctx context.Context, fileID core.UploadID, rows []tabular.Row) error
}

// UploadAdminPort is the ingestion side of the upload store: how new sheets
// enter the system and how stale ones leave. Served in-process only; when a
// remote upload service is configured, ingestion happens over there.
type UploadAdminPort interface {
	// SaveUpload stores a spreadsheet and registers its metadata. The
	// upload type is classified from the filename.
	SaveUpload(ctx context.Context, name string, content []byte) (tracker.UploadMeta, error)

	// DeleteUpload removes an upload's record and its stored file.
	DeleteUpload(ctx context.Context, fileID core.UploadID) error
}

// TrackerAdminPort is the write side of the task tracker.
type TrackerAdminPort interface {
	// SaveTask creates or updates the per-site task record.
	SaveTask(ctx context.Context, task *tracker.TaskRecord) error
}

// TrackerServicePort exposes the relational collections the status deriver
// correlates. All reads; the deriver never writes.
type TrackerServicePort interface {
	// ListOfflineSites returns offline-site entries deduplicated per site
	// code, keeping the most recently updated. includeApproved widens the
	// result to entries whose offline state was already signed off.
	ListOfflineSites(ctx context.Context, includeApproved bool) ([]tracker.OfflineSite, error)

	ListTasks(ctx context.Context) ([]tracker.TaskRecord, error)
	ListActions(ctx context.Context) ([]tracker.ActionRecord, error)
	ListApprovals(ctx context.Context) ([]tracker.ApprovalRecord, error)
	ListRtuTrackerApprovals(ctx context.Context) ([]tracker.ApprovalRecord, error)
}
