package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/ports"
)

// trackerRepository implements ports.TrackerRepository over Postgres.
type trackerRepository struct {
	db *sqlx.DB
}

// NewTrackerRepository creates a tracker collections repository.
func NewTrackerRepository(db *sqlx.DB) ports.TrackerRepository {
	return &trackerRepository{db: db}
}

func (r *trackerRepository) ListTasks(ctx context.Context) ([]tracker.TaskRecord, error) {
	query := `SELECT id, site_code, task_status, kept_monitoring, recheck_needed,
		assigned_role, created_at, updated_at
		FROM tasks ORDER BY site_code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []tracker.TaskRecord
	for rows.Next() {
		var t tracker.TaskRecord
		if err := rows.Scan(&t.ID, &t.SiteCode, &t.TaskStatus, &t.KeptMonitoring,
			&t.RecheckNeeded, &t.AssignedRole, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *trackerRepository) ListActions(ctx context.Context) ([]tracker.ActionRecord, error) {
	query := `SELECT id, site_code, role, status, routed_at, completed_date, created_at, updated_at
		FROM actions ORDER BY site_code, routed_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var actions []tracker.ActionRecord
	for rows.Next() {
		var (
			a         tracker.ActionRecord
			routedAt  *time.Time
			completed *time.Time
		)
		if err := rows.Scan(&a.ID, &a.SiteCode, &a.Role, &a.Status, &routedAt,
			&completed, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		if routedAt != nil {
			a.RoutedAt = *routedAt
		}
		a.CompletedDate = completed
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (r *trackerRepository) ListApprovals(ctx context.Context, approvalType string) ([]tracker.ApprovalRecord, error) {
	query := `SELECT id, site_code, approval_type, assigned_to_role, status,
		approved_at, completed_date, created_at, updated_at
		FROM approvals`
	args := []interface{}{}
	if approvalType != "" {
		query += ` WHERE approval_type = $1`
		args = append(args, approvalType)
	}
	query += ` ORDER BY site_code, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals: %w", err)
	}
	defer rows.Close()

	var approvals []tracker.ApprovalRecord
	for rows.Next() {
		var a tracker.ApprovalRecord
		if err := rows.Scan(&a.ID, &a.SiteCode, &a.ApprovalType, &a.AssignedToRole,
			&a.Status, &a.ApprovedAt, &a.CompletedDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approvals = append(approvals, a)
	}
	return approvals, rows.Err()
}

func (r *trackerRepository) ListOfflineSites(ctx context.Context, includeApproved bool) ([]tracker.OfflineSite, error) {
	query := `SELECT site_code, offline_date, approved, created_at, updated_at
		FROM offline_sites`
	if !includeApproved {
		query += ` WHERE approved = FALSE`
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query offline sites: %w", err)
	}
	defer rows.Close()

	var sites []tracker.OfflineSite
	for rows.Next() {
		var s tracker.OfflineSite
		if err := rows.Scan(&s.SiteCode, &s.OfflineDate, &s.Approved, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan offline site: %w", err)
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (r *trackerRepository) UpsertTask(ctx context.Context, task *tracker.TaskRecord) error {
	if task.ID == "" {
		task.ID = core.TaskID(core.NewID())
	}
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	query := `INSERT INTO tasks (id, site_code, task_status, kept_monitoring, recheck_needed,
		assigned_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (site_code) DO UPDATE SET
			task_status = EXCLUDED.task_status,
			kept_monitoring = EXCLUDED.kept_monitoring,
			recheck_needed = EXCLUDED.recheck_needed,
			assigned_role = EXCLUDED.assigned_role,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query, task.ID, task.SiteCode, task.TaskStatus,
		task.KeptMonitoring, task.RecheckNeeded, task.AssignedRole, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert task: %w", err)
	}
	return nil
}
