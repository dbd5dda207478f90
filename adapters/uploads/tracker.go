package uploads

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
)

// TrackerClient reads the task/action/approval/offline-site collections.
// Implements ports.TrackerServicePort; shares the HTTP plumbing of Client.
type TrackerClient struct {
	*Client
}

// NewTrackerClient wraps an upload client for the tracker endpoints.
func NewTrackerClient(c *Client) *TrackerClient {
	return &TrackerClient{Client: c}
}

// ListOfflineSites returns offline-site entries deduplicated per site code,
// keeping the most recently updated.
func (c *TrackerClient) ListOfflineSites(ctx context.Context, includeApproved bool) ([]tracker.OfflineSite, error) {
	path := "/api/offline-sites"
	if includeApproved {
		path += "?includeApproved=true"
	}
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var sites []tracker.OfflineSite
	for _, item := range dataArray(body) {
		sites = append(sites, tracker.OfflineSite{
			SiteCode:    firstString(item, "siteCode", "site_code", "code"),
			OfflineDate: firstTimePtr(item, "offlineDate", "offline_date", "offlineSince"),
			Approved:    item.Get("approved").Bool(),
			CreatedAt:   firstTime(item, "createdAt", "created_at"),
			UpdatedAt:   firstTime(item, "updatedAt", "updated_at"),
		})
	}
	return DedupOfflineSites(sites), nil
}

// ListTasks returns every per-site task record.
func (c *TrackerClient) ListTasks(ctx context.Context) ([]tracker.TaskRecord, error) {
	body, err := c.get(ctx, "/api/tasks")
	if err != nil {
		return nil, err
	}
	var tasks []tracker.TaskRecord
	for _, item := range dataArray(body) {
		tasks = append(tasks, tracker.TaskRecord{
			ID:             core.TaskID(firstString(item, "id", "taskId")),
			SiteCode:       firstString(item, "siteCode", "site_code"),
			TaskStatus:     firstString(item, "taskStatus", "task_status", "status"),
			KeptMonitoring: item.Get("keptMonitoring").Bool() || item.Get("kept_monitoring").Bool(),
			RecheckNeeded:  item.Get("recheckNeeded").Bool() || item.Get("recheck_needed").Bool(),
			AssignedRole:   tracker.Role(firstString(item, "assignedRole", "assigned_role")),
			CreatedAt:      firstTime(item, "createdAt", "created_at"),
			UpdatedAt:      firstTime(item, "updatedAt", "updated_at"),
		})
	}
	return tasks, nil
}

// ListActions returns every workflow action.
func (c *TrackerClient) ListActions(ctx context.Context) ([]tracker.ActionRecord, error) {
	body, err := c.get(ctx, "/api/actions")
	if err != nil {
		return nil, err
	}
	var actions []tracker.ActionRecord
	for _, item := range dataArray(body) {
		actions = append(actions, parseAction(item))
	}
	return actions, nil
}

// ListApprovals returns the CCR resolution approvals.
func (c *TrackerClient) ListApprovals(ctx context.Context) ([]tracker.ApprovalRecord, error) {
	return c.listApprovals(ctx, "/api/approvals")
}

// ListRtuTrackerApprovals returns the approvals raised from the RTU tracker
// sheet workflow, a separate collection on the service side.
func (c *TrackerClient) ListRtuTrackerApprovals(ctx context.Context) ([]tracker.ApprovalRecord, error) {
	return c.listApprovals(ctx, "/api/rtu-tracker/approvals")
}

func (c *TrackerClient) listApprovals(ctx context.Context, path string) ([]tracker.ApprovalRecord, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var approvals []tracker.ApprovalRecord
	for _, item := range dataArray(body) {
		approvals = append(approvals, tracker.ApprovalRecord{
			ID:             core.ApprovalID(firstString(item, "id", "approvalId")),
			SiteCode:       firstString(item, "siteCode", "site_code"),
			ApprovalType:   firstString(item, "approvalType", "approval_type", "type"),
			AssignedToRole: tracker.Role(firstString(item, "assignedToRole", "assigned_to_role", "role")),
			Status:         firstString(item, "status"),
			ApprovedAt:     firstTimePtr(item, "approvedAt", "approved_at"),
			CompletedDate:  firstTimePtr(item, "completedDate", "completed_date"),
			CreatedAt:      firstTime(item, "createdAt", "created_at"),
			UpdatedAt:      firstTime(item, "updatedAt", "updated_at"),
		})
	}
	return approvals, nil
}

func parseAction(item gjson.Result) tracker.ActionRecord {
	return tracker.ActionRecord{
		ID:            core.ActionID(firstString(item, "id", "actionId")),
		SiteCode:      firstString(item, "siteCode", "site_code"),
		Role:          tracker.Role(firstString(item, "role", "assignedRole")),
		Status:        firstString(item, "status"),
		RoutedAt:      firstTime(item, "routedAt", "routed_at", "createdAt", "created_at"),
		CompletedDate: firstTimePtr(item, "completedDate", "completed_date"),
		CreatedAt:     firstTime(item, "createdAt", "created_at"),
		UpdatedAt:     firstTime(item, "updatedAt", "updated_at"),
	}
}

// DedupOfflineSites keeps one entry per site code: the most recently
// updated, falling back to creation time when updates are absent.
func DedupOfflineSites(sites []tracker.OfflineSite) []tracker.OfflineSite {
	best := make(map[string]tracker.OfflineSite, len(sites))
	var order []string
	for _, s := range sites {
		if s.SiteCode == "" {
			continue
		}
		existing, seen := best[s.SiteCode]
		if !seen {
			best[s.SiteCode] = s
			order = append(order, s.SiteCode)
			continue
		}
		if freshness(s).After(freshness(existing)) {
			best[s.SiteCode] = s
		}
	}
	out := make([]tracker.OfflineSite, 0, len(order))
	for _, code := range order {
		out = append(out, best[code])
	}
	return out
}

func freshness(s tracker.OfflineSite) time.Time {
	if !s.UpdatedAt.IsZero() {
		return s.UpdatedAt
	}
	return s.CreatedAt
}
