package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
	apperrors "github.com/dasinspectionapp/equipment-maintainance-sub003/internal/errors"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/ports"
)

// uploadRepository implements ports.UploadRepository over Postgres.
type uploadRepository struct {
	db *sqlx.DB
}

// NewUploadRepository creates an upload metadata repository.
func NewUploadRepository(db *sqlx.DB) ports.UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, meta *tracker.UploadMeta, filePath string) error {
	query := `INSERT INTO uploads (file_id, name, upload_type, file_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, meta.FileID, meta.Name, meta.UploadType, filePath, meta.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create upload record: %w", err)
	}
	return nil
}

func (r *uploadRepository) List(ctx context.Context) ([]tracker.UploadMeta, error) {
	query := `SELECT file_id, name, upload_type, uploaded_at
		FROM uploads ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var metas []tracker.UploadMeta
	for rows.Next() {
		var m tracker.UploadMeta
		if err := rows.Scan(&m.FileID, &m.Name, &m.UploadType, &m.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

func (r *uploadRepository) GetFilePath(ctx context.Context, fileID core.UploadID) (string, error) {
	var path string
	err := r.db.QueryRowContext(ctx, `SELECT file_path FROM uploads WHERE file_id = $1`, fileID).Scan(&path)
	if err == sql.ErrNoRows {
		return "", apperrors.UploadNotFound(string(fileID))
	}
	if err != nil {
		return "", fmt.Errorf("failed to get upload: %w", err)
	}
	return path, nil
}

func (r *uploadRepository) Delete(ctx context.Context, fileID core.UploadID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM uploads WHERE file_id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.UploadNotFound(string(fileID))
	}
	return nil
}
