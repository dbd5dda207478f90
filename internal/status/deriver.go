// Package status re-derives a site's human-facing resolution state from
// three independently maintained collections. The stored task status alone
// is ambiguous between "equipment team marked resolved" and "CCR has since
// approved it", so every page load correlates the task record against
// workflow actions and approval requests instead of trusting the field.
package status

import (
	"strings"
	"time"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
)

// Deriver computes the (presentStatus, dateLabel, date) triple for a site.
// Pure and re-entrant; safe to share across requests.
type Deriver struct{}

// NewDeriver creates a status deriver.
func NewDeriver() *Deriver {
	return &Deriver{}
}

var ccrPhrases = []string{"pending at ccr", "ccr team", "ccr approval"}

// Derive walks the decision tree in fixed priority order. All records are
// pre-filtered to the given site by the caller; offlineHint is the most
// recent offline-transition date known for the site, nil when unknown.
func (d *Deriver) Derive(site string, task *tracker.TaskRecord, actions []tracker.ActionRecord, approvals []tracker.ApprovalRecord, offlineHint *time.Time) tracker.StatusResult {
	if task == nil {
		return tracker.StatusResult{
			PresentStatus: tracker.StatusPendingAtEquipment,
			DateLabel:     tracker.DateLabelPendingFrom,
			Date:          offlineHint,
		}
	}

	raw := strings.TrimSpace(task.TaskStatus)
	if raw == "" {
		raw = tracker.StatusPendingAtEquipment
	}
	normalized := strings.ToLower(raw)

	if strings.Contains(normalized, "resolved") {
		return d.resolutionOutcome(task, actions, approvals)
	}

	for _, phrase := range ccrPhrases {
		if strings.Contains(normalized, phrase) {
			return d.resolutionOutcome(task, actions, approvals)
		}
	}

	if strings.Contains(normalized, "pending at") {
		if strings.Contains(normalized, "equipment team") {
			return tracker.StatusResult{
				PresentStatus: raw,
				DateLabel:     tracker.DateLabelPendingFrom,
				Date:          offlineHint,
			}
		}
		return tracker.StatusResult{
			PresentStatus: raw,
			DateLabel:     tracker.DateLabelStatus,
			Date:          earliestRoutedOrCreation(task, actions),
		}
	}

	return tracker.StatusResult{
		PresentStatus: raw,
		DateLabel:     tracker.DateLabelStatus,
		Date:          earliestRoutedOrCreation(task, actions),
	}
}

// resolutionOutcome is the shared sub-branch behind both the "resolved" and
// the "pending at CCR" statuses: a task can reach CCR without its own status
// ever reading "resolved".
func (d *Deriver) resolutionOutcome(task *tracker.TaskRecord, actions []tracker.ActionRecord, approvals []tracker.ApprovalRecord) tracker.StatusResult {
	if task.KeptMonitoring {
		return tracker.StatusResult{
			PresentStatus: tracker.StatusKeptForMonitoring,
			DateLabel:     tracker.DateLabelLastUpdated,
			Date:          timePtr(task.UpdatedAt),
		}
	}
	if task.RecheckNeeded {
		return tracker.StatusResult{
			PresentStatus: tracker.StatusRecheckInitiated,
			DateLabel:     tracker.DateLabelLastUpdated,
			Date:          timePtr(task.UpdatedAt),
		}
	}
	if approvedAt := completedCCRApprovalDate(actions, approvals); approvedAt != nil {
		return tracker.StatusResult{
			PresentStatus: tracker.StatusResolvedApproved,
			DateLabel:     tracker.DateLabelCCRApproved,
			Date:          approvedAt,
		}
	}
	return tracker.StatusResult{
		PresentStatus: tracker.StatusWaitingForCCR,
		DateLabel:     tracker.DateLabelResolved,
		Date:          resolvedAtEquipment(task, actions),
	}
}

// completedCCRApprovalDate finds a completed CCR-role approval and returns
// its completion timestamp: explicit approvedAt first, then an action's
// completed date, then the record's updatedAt.
func completedCCRApprovalDate(actions []tracker.ActionRecord, approvals []tracker.ApprovalRecord) *time.Time {
	for _, ap := range approvals {
		if ap.AssignedToRole != tracker.RoleCCR || !ap.Approved() {
			continue
		}
		if ap.ApprovedAt != nil {
			return ap.ApprovedAt
		}
		if ap.CompletedDate != nil {
			return ap.CompletedDate
		}
		return timePtr(ap.UpdatedAt)
	}
	for _, ac := range actions {
		if ac.Role != tracker.RoleCCR || !ac.Completed() {
			continue
		}
		if ac.CompletedDate != nil {
			return ac.CompletedDate
		}
		return timePtr(ac.UpdatedAt)
	}
	return nil
}

// resolvedAtEquipment returns the earliest completion time among
// equipment/AMC-role completed actions, else the task's own update or
// creation time.
func resolvedAtEquipment(task *tracker.TaskRecord, actions []tracker.ActionRecord) *time.Time {
	var earliest *time.Time
	for _, ac := range actions {
		if ac.Role != tracker.RoleEquipment && ac.Role != tracker.RoleAMC {
			continue
		}
		if !ac.Completed() {
			continue
		}
		t := ac.UpdatedAt
		if ac.CompletedDate != nil {
			t = *ac.CompletedDate
		}
		if earliest == nil || t.Before(*earliest) {
			earliest = timePtr(t)
		}
	}
	if earliest != nil {
		return earliest
	}
	if !task.UpdatedAt.IsZero() {
		return timePtr(task.UpdatedAt)
	}
	if !task.CreatedAt.IsZero() {
		return timePtr(task.CreatedAt)
	}
	return nil
}

// earliestRoutedOrCreation returns the earliest routing-action time, else
// the task's creation time.
func earliestRoutedOrCreation(task *tracker.TaskRecord, actions []tracker.ActionRecord) *time.Time {
	var earliest *time.Time
	for _, ac := range actions {
		if ac.RoutedAt.IsZero() {
			continue
		}
		if earliest == nil || ac.RoutedAt.Before(*earliest) {
			earliest = timePtr(ac.RoutedAt)
		}
	}
	if earliest != nil {
		return earliest
	}
	if !task.CreatedAt.IsZero() {
		return timePtr(task.CreatedAt)
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
