// Package app wires the reconciliation engine to the upload and tracker
// collaborators and builds the per-page view models.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/adapters/excel"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/adapters/uploads"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/config"
	apperrors "github.com/dasinspectionapp/equipment-maintainance-sub003/internal/errors"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/ports"
)

// LocalUploadService serves uploads from the database and disk instead of
// the remote upload service. Implements ports.UploadServicePort and
// ports.UploadAdminPort; the page services cannot tell the two apart.
type LocalUploadService struct {
	repo    ports.UploadRepository
	reader  *excel.DataReader
	storage config.StorageConfig
	log     *internal.Logger
}

// NewLocalUploadService creates the in-process upload service.
func NewLocalUploadService(repo ports.UploadRepository, storage config.StorageConfig) *LocalUploadService {
	return &LocalUploadService{
		repo:    repo,
		reader:  excel.NewDataReader(),
		storage: storage,
		log:     internal.NewDefaultLogger("LocalUploads"),
	}
}

// ListUploads returns stored upload metadata, newest first.
func (s *LocalUploadService) ListUploads(ctx context.Context) ([]tracker.UploadMeta, error) {
	return s.repo.List(ctx)
}

// GetUpload reads and parses the stored spreadsheet for one upload.
func (s *LocalUploadService) GetUpload(ctx context.Context, fileID core.UploadID) (tabular.Dataset, error) {
	path, err := s.repo.GetFilePath(ctx, fileID)
	if err != nil {
		return tabular.Dataset{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return tabular.Dataset{}, apperrors.Wrapf(err, "failed to read upload file %s", fileID)
	}
	return s.reader.Read(filepath.Base(path), content)
}

// SaveRows rewrites the stored spreadsheet with the edited rows, keeping
// the original header order.
func (s *LocalUploadService) SaveRows(ctx context.Context, fileID core.UploadID, rows []tabular.Row) error {
	path, err := s.repo.GetFilePath(ctx, fileID)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Wrapf(err, "failed to read upload file %s", fileID)
	}
	ds, err := s.reader.Read(filepath.Base(path), content)
	if err != nil {
		return err
	}
	ds.Rows = rows

	out, err := excel.WriteWorkbook(ds, "")
	if err != nil {
		return apperrors.Wrapf(err, "failed to rewrite upload %s", fileID)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return apperrors.Wrapf(err, "failed to write upload file %s", fileID)
	}
	s.log.Info("rewrote upload %s with %d rows", fileID, len(rows))
	return nil
}

// SaveUpload validates and stores a new spreadsheet, registering its
// metadata so the page loads can discover it. The content must parse as a
// sheet before anything touches disk.
func (s *LocalUploadService) SaveUpload(ctx context.Context, name string, content []byte) (tracker.UploadMeta, error) {
	if strings.TrimSpace(name) == "" {
		return tracker.UploadMeta{}, apperrors.InvalidInput("upload name is required")
	}
	if int64(len(content)) > s.storage.MaxFileSize {
		return tracker.UploadMeta{}, apperrors.InvalidInput(
			fmt.Sprintf("upload %s exceeds the %d byte limit", name, s.storage.MaxFileSize))
	}
	if _, err := s.reader.Read(name, content); err != nil {
		return tracker.UploadMeta{}, err
	}

	meta := tracker.UploadMeta{
		FileID:     core.UploadID(core.NewID()),
		Name:       name,
		UploadedAt: time.Now(),
	}
	meta.UploadType = uploads.ClassifyUpload(meta)

	if err := os.MkdirAll(s.storage.BasePath, 0o755); err != nil {
		return tracker.UploadMeta{}, apperrors.Wrapf(err, "failed to create storage dir %s", s.storage.BasePath)
	}
	path := filepath.Join(s.storage.BasePath, meta.FileID.String()+strings.ToLower(filepath.Ext(name)))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return tracker.UploadMeta{}, apperrors.Wrapf(err, "failed to store upload file %s", name)
	}
	if err := s.repo.Create(ctx, &meta, path); err != nil {
		os.Remove(path)
		return tracker.UploadMeta{}, err
	}
	s.log.Info("stored upload %s (%s, %d bytes)", name, meta.FileID, len(content))
	return meta, nil
}

// DeleteUpload removes the upload record and its file on disk.
func (s *LocalUploadService) DeleteUpload(ctx context.Context, fileID core.UploadID) error {
	path, err := s.repo.GetFilePath(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, fileID); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("upload %s deleted but file %s remains: %v", fileID, path, err)
	}
	return nil
}

// LocalTrackerService serves the tracker collections from the database.
// Implements ports.TrackerServicePort and ports.TrackerAdminPort.
type LocalTrackerService struct {
	repo ports.TrackerRepository
}

// NewLocalTrackerService creates the in-process tracker service.
func NewLocalTrackerService(repo ports.TrackerRepository) *LocalTrackerService {
	return &LocalTrackerService{repo: repo}
}

func (s *LocalTrackerService) ListOfflineSites(ctx context.Context, includeApproved bool) ([]tracker.OfflineSite, error) {
	sites, err := s.repo.ListOfflineSites(ctx, includeApproved)
	if err != nil {
		return nil, err
	}
	return uploads.DedupOfflineSites(sites), nil
}

func (s *LocalTrackerService) ListTasks(ctx context.Context) ([]tracker.TaskRecord, error) {
	return s.repo.ListTasks(ctx)
}

func (s *LocalTrackerService) ListActions(ctx context.Context) ([]tracker.ActionRecord, error) {
	return s.repo.ListActions(ctx)
}

func (s *LocalTrackerService) ListApprovals(ctx context.Context) ([]tracker.ApprovalRecord, error) {
	return s.repo.ListApprovals(ctx, tracker.ApprovalTypeCCRResolution)
}

func (s *LocalTrackerService) ListRtuTrackerApprovals(ctx context.Context) ([]tracker.ApprovalRecord, error) {
	return s.repo.ListApprovals(ctx, tracker.ApprovalTypeRtuTracker)
}

// SaveTask creates or updates the per-site task record.
func (s *LocalTrackerService) SaveTask(ctx context.Context, task *tracker.TaskRecord) error {
	if strings.TrimSpace(task.SiteCode) == "" {
		return apperrors.InvalidInput("task site code is required")
	}
	return s.repo.UpsertTask(ctx, task)
}
