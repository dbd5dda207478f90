package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
)

func ts(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tsPtr(y int, m time.Month, d int) *time.Time {
	t := ts(y, m, d)
	return &t
}

func TestDeriveNoTaskRecordUsesOfflineHint(t *testing.T) {
	d := NewDeriver()
	hint := tsPtr(2025, 2, 20)

	got := d.Derive("ABC1", nil, nil, nil, hint)
	assert.Equal(t, tracker.StatusPendingAtEquipment, got.PresentStatus)
	assert.Equal(t, tracker.DateLabelPendingFrom, got.DateLabel)
	require.NotNil(t, got.Date)
	assert.True(t, hint.Equal(*got.Date))
}

func TestDeriveBlankStatusDefaultsToPendingAtEquipment(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{SiteCode: "ABC1", TaskStatus: "   ", CreatedAt: ts(2025, 2, 1)}
	hint := tsPtr(2025, 2, 20)

	got := d.Derive("ABC1", task, nil, nil, hint)
	assert.Equal(t, tracker.StatusPendingAtEquipment, got.PresentStatus)
	assert.Equal(t, tracker.DateLabelPendingFrom, got.DateLabel)
	require.NotNil(t, got.Date)
	assert.True(t, hint.Equal(*got.Date))
}

func TestDeriveResolvedWithCCRApproval(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{SiteCode: "ABC1", TaskStatus: "Resolved"}
	approvals := []tracker.ApprovalRecord{{
		SiteCode:       "ABC1",
		ApprovalType:   tracker.ApprovalTypeCCRResolution,
		AssignedToRole: tracker.RoleCCR,
		Status:         "Approved",
		ApprovedAt:     tsPtr(2025, 3, 1),
	}}

	got := d.Derive("ABC1", task, nil, approvals, nil)
	assert.Equal(t, tracker.StatusResolvedApproved, got.PresentStatus)
	assert.Equal(t, tracker.DateLabelCCRApproved, got.DateLabel)
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 3, 1).Equal(*got.Date))
}

func TestDeriveResolvedMonitoringBeatsApproval(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{
		TaskStatus:     "Resolved",
		KeptMonitoring: true,
		UpdatedAt:      ts(2025, 3, 5),
	}
	approvals := []tracker.ApprovalRecord{{
		AssignedToRole: tracker.RoleCCR,
		Status:         "Approved",
		ApprovedAt:     tsPtr(2025, 3, 1),
	}}

	got := d.Derive("ABC1", task, nil, approvals, nil)
	assert.Equal(t, tracker.StatusKeptForMonitoring, got.PresentStatus)
	assert.Equal(t, tracker.DateLabelLastUpdated, got.DateLabel)
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 3, 5).Equal(*got.Date))
}

func TestDeriveResolvedRecheck(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{
		TaskStatus:    "Resolved",
		RecheckNeeded: true,
		UpdatedAt:     ts(2025, 3, 6),
	}

	got := d.Derive("ABC1", task, nil, nil, nil)
	assert.Equal(t, tracker.StatusRecheckInitiated, got.PresentStatus)
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 3, 6).Equal(*got.Date))
}

func TestDeriveResolvedWaitingForCCR(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{TaskStatus: "Resolved", UpdatedAt: ts(2025, 3, 10)}
	actions := []tracker.ActionRecord{
		{Role: tracker.RoleAMC, Status: "completed", CompletedDate: tsPtr(2025, 3, 4)},
		{Role: tracker.RoleEquipment, Status: "completed", CompletedDate: tsPtr(2025, 3, 2)},
	}

	got := d.Derive("ABC1", task, actions, nil, nil)
	assert.Equal(t, tracker.StatusWaitingForCCR, got.PresentStatus)
	assert.Equal(t, tracker.DateLabelResolved, got.DateLabel)
	// Earliest completed equipment/AMC action wins.
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 3, 2).Equal(*got.Date))
}

func TestDeriveWaitingForCCRFallsBackToTaskTimestamps(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{TaskStatus: "Resolved", UpdatedAt: ts(2025, 3, 10)}

	got := d.Derive("ABC1", task, nil, nil, nil)
	assert.Equal(t, tracker.StatusWaitingForCCR, got.PresentStatus)
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 3, 10).Equal(*got.Date))
}

func TestDerivePendingAtCCRSharesResolutionBranch(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{TaskStatus: "Pending at CCR Team"}
	approvals := []tracker.ApprovalRecord{{
		AssignedToRole: tracker.RoleCCR,
		Status:         "Approved",
		ApprovedAt:     tsPtr(2025, 3, 1),
	}}

	got := d.Derive("ABC1", task, nil, approvals, nil)
	assert.Equal(t, tracker.StatusResolvedApproved, got.PresentStatus)
	assert.Equal(t, tracker.DateLabelCCRApproved, got.DateLabel)
}

func TestDerivePendingAtCCRWithoutApprovalWaits(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{TaskStatus: "pending at ccr approval", UpdatedAt: ts(2025, 3, 8)}

	got := d.Derive("ABC1", task, nil, nil, nil)
	assert.Equal(t, tracker.StatusWaitingForCCR, got.PresentStatus)
}

func TestDerivePendingAtOtherTeamKeepsLiteralText(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{TaskStatus: "Pending at AMC Team", CreatedAt: ts(2025, 2, 1)}
	actions := []tracker.ActionRecord{
		{Role: tracker.RoleAMC, RoutedAt: ts(2025, 2, 10)},
		{Role: tracker.RoleAMC, RoutedAt: ts(2025, 2, 5)},
	}

	got := d.Derive("ABC1", task, actions, nil, nil)
	assert.Equal(t, "Pending at AMC Team", got.PresentStatus)
	assert.Equal(t, tracker.DateLabelStatus, got.DateLabel)
	// Earliest routing action wins over creation time.
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 2, 5).Equal(*got.Date))
}

func TestDeriveOtherStatusFallsBackToCreation(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{TaskStatus: "Spares Awaited", CreatedAt: ts(2025, 2, 1)}

	got := d.Derive("ABC1", task, nil, nil, nil)
	assert.Equal(t, "Spares Awaited", got.PresentStatus)
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 2, 1).Equal(*got.Date))
}

func TestDeriveApprovalDatePriority(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{TaskStatus: "Resolved"}

	// No approvedAt: completed date is next.
	approvals := []tracker.ApprovalRecord{{
		AssignedToRole: tracker.RoleCCR,
		Status:         "Completed",
		CompletedDate:  tsPtr(2025, 3, 2),
		UpdatedAt:      ts(2025, 3, 9),
	}}
	got := d.Derive("ABC1", task, nil, approvals, nil)
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 3, 2).Equal(*got.Date))

	// Neither approvedAt nor completed date: updatedAt.
	approvals[0].CompletedDate = nil
	got = d.Derive("ABC1", task, nil, approvals, nil)
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 3, 9).Equal(*got.Date))
}

func TestDeriveCompletedCCRActionCountsAsApproval(t *testing.T) {
	d := NewDeriver()
	task := &tracker.TaskRecord{TaskStatus: "Resolved"}
	actions := []tracker.ActionRecord{{
		Role:          tracker.RoleCCR,
		Status:        "completed",
		CompletedDate: tsPtr(2025, 3, 3),
	}}

	got := d.Derive("ABC1", task, actions, nil, nil)
	assert.Equal(t, tracker.StatusResolvedApproved, got.PresentStatus)
	require.NotNil(t, got.Date)
	assert.True(t, ts(2025, 3, 3).Equal(*got.Date))
}
