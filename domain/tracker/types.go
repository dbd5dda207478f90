// Package tracker holds the relational records the status deriver
// correlates: the per-site task record, workflow actions, approval
// requests, and offline-site entries, plus the derived StatusResult.
package tracker

import (
	"strings"
	"time"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
)

// Role identifies the team a record is attributed to.
type Role string

const (
	RoleEquipment Role = "Equipment"
	RoleAMC       Role = "AMC"
	RoleCCR       Role = "CCR"
)

// Well-known present-status labels produced by the deriver.
const (
	StatusPendingAtEquipment = "Pending at Equipment Team"
	StatusKeptForMonitoring  = "Kept for Monitoring"
	StatusRecheckInitiated   = "Recheck Initiated"
	StatusResolvedApproved   = "Resolved and Approved"
	StatusWaitingForCCR      = "Resolved at Equipment Team and Waiting for CCR Approval"
)

// Date labels attached to the derived status date.
const (
	DateLabelCCRApproved = "CCR Approved Date"
	DateLabelPendingFrom = "Pending from Date"
	DateLabelResolved    = "Resolved Date"
	DateLabelLastUpdated = "Last Updated"
	DateLabelStatus      = "Status Date"
)

// TaskRecord is the per-site task-tracking record maintained by the
// equipment team. TaskStatus alone is ambiguous between "equipment marked
// resolved" and "CCR has since approved"; the deriver correlates it with
// actions and approvals.
type TaskRecord struct {
	ID             core.TaskID `json:"id"`
	SiteCode       string      `json:"siteCode"`
	TaskStatus     string      `json:"taskStatus"`
	KeptMonitoring bool        `json:"keptMonitoring"`
	RecheckNeeded  bool        `json:"recheckNeeded"`
	AssignedRole   Role        `json:"assignedRole"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// ActionRecord is one workflow action (routing or completion) taken against
// a site's task.
type ActionRecord struct {
	ID            core.ActionID `json:"id"`
	SiteCode      string        `json:"siteCode"`
	Role          Role          `json:"role"`
	Status        string        `json:"status"`
	RoutedAt      time.Time     `json:"routedAt"`
	CompletedDate *time.Time    `json:"completedDate,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Completed reports whether the action reached a terminal completed state.
func (a ActionRecord) Completed() bool {
	return a.CompletedDate != nil || strings.EqualFold(a.Status, "completed") || strings.EqualFold(a.Status, "done")
}

// ApprovalRecord is an approval request raised for a site, typically the
// CCR sign-off that finalizes a resolution.
type ApprovalRecord struct {
	ID             core.ApprovalID `json:"id"`
	SiteCode       string          `json:"siteCode"`
	ApprovalType   string          `json:"approvalType"`
	AssignedToRole Role            `json:"assignedToRole"`
	Status         string          `json:"status"`
	ApprovedAt     *time.Time      `json:"approvedAt,omitempty"`
	CompletedDate  *time.Time      `json:"completedDate,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Approved reports whether the approval reached an approved/completed state.
func (a ApprovalRecord) Approved() bool {
	return strings.EqualFold(a.Status, "approved") || strings.EqualFold(a.Status, "completed")
}

// OfflineSite records the most recent transition of a device into an
// offline state, maintained independently of the task tracker.
type OfflineSite struct {
	SiteCode    string     `json:"siteCode"`
	OfflineDate *time.Time `json:"offlineDate,omitempty"`
	Approved    bool       `json:"approved"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// StatusResult is the derived, human-facing resolution state of a site.
type StatusResult struct {
	PresentStatus string     `json:"presentStatus"`
	DateLabel     string     `json:"dateLabel"`
	Date          *time.Time `json:"date,omitempty"`
}

// Approval types distinguish the CCR resolution sign-off from the separate
// RTU tracker sheet workflow.
const (
	ApprovalTypeCCRResolution = "CCR Resolution Approval"
	ApprovalTypeRtuTracker    = "RTU Tracker Approval"
)

// UploadType tags the role a spreadsheet plays in the merge.
type UploadType string

const (
	UploadDeviceStatus  UploadType = "device-status-upload"
	UploadOnlineOffline UploadType = "online-offline-data"
	UploadRtuTracker    UploadType = "rtu-tracker"
)

// UploadMeta describes one uploaded spreadsheet as listed by the upload
// service. UploadedAt falls back to CreatedAt when the service predates the
// uploadedAt field.
type UploadMeta struct {
	FileID     core.UploadID `json:"fileId"`
	Name       string        `json:"name"`
	UploadType UploadType    `json:"uploadType"`
	UploadedAt time.Time     `json:"uploadedAt"`
}
