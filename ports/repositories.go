package ports

import (
	"context"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
)

// UploadRepository is the storage side of the upload service.
type UploadRepository interface {
	Create(ctx context.Context, meta *tracker.UploadMeta, filePath string) error
	List(ctx context.Context) ([]tracker.UploadMeta, error)
	GetFilePath(ctx context.Context, fileID core.UploadID) (string, error)
	Delete(ctx context.Context, fileID core.UploadID) error
}

// TrackerRepository persists the task/action/approval/offline-site
// collections consumed by the status deriver.
type TrackerRepository interface {
	ListTasks(ctx context.Context) ([]tracker.TaskRecord, error)
	ListActions(ctx context.Context) ([]tracker.ActionRecord, error)
	ListApprovals(ctx context.Context, approvalType string) ([]tracker.ApprovalRecord, error)
	ListOfflineSites(ctx context.Context, includeApproved bool) ([]tracker.OfflineSite, error)
	UpsertTask(ctx context.Context, task *tracker.TaskRecord) error
}

// Session is the explicit per-request identity object. It is loaded once by
// middleware at request start and immutable for the request; nothing reads
// identity from globals.
type Session struct {
	UserID core.ID
	Name   string
	Role   tracker.Role
}

// HasRole reports whether the session carries the required role.
func (s Session) HasRole(required tracker.Role) bool {
	return required == "" || s.Role == required
}
