package app

import (
	"context"
	"time"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/adapters/uploads"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal"
	apperrors "github.com/dasinspectionapp/equipment-maintainance-sub003/internal/errors"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/recon"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/status"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/summary"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/ports"
)

// PageService builds the view models for the three dashboard pages. Every
// load is a strictly sequential chain of fetches followed by the pure
// merge/filter/derive steps; results are full recomputations, never deltas.
type PageService struct {
	uploads  ports.UploadServicePort
	trackers ports.TrackerServicePort
	pipeline *recon.Pipeline
	deriver  *status.Deriver
	log      *internal.Logger
}

// NewPageService creates the page service.
func NewPageService(uploadSvc ports.UploadServicePort, trackerSvc ports.TrackerServicePort) *PageService {
	return &PageService{
		uploads:  uploadSvc,
		trackers: trackerSvc,
		pipeline: recon.NewPipeline(nil),
		deriver:  status.NewDeriver(),
		log:      internal.NewDefaultLogger("Pages"),
	}
}

// StatusRow is one merged row plus its derived resolution state.
type StatusRow struct {
	Cells  tabular.Row          `json:"cells"`
	Status tracker.StatusResult `json:"status"`
}

// DeviceStatusView is the device-status page model.
type DeviceStatusView struct {
	Headers []string             `json:"headers"`
	Rows    []StatusRow          `json:"rows"`
	Summary summary.FleetSummary `json:"summary"`
	Sources []recon.SourceMerge  `json:"sources"`
}

// trackerContext bundles the relational collections one page load consumes,
// indexed by normalized site code.
type trackerContext struct {
	tasks     map[string]*tracker.TaskRecord
	actions   map[string][]tracker.ActionRecord
	approvals map[string][]tracker.ApprovalRecord
	offline   map[string]*time.Time
}

// LoadDeviceStatus runs the device-status chain: primary device-status sheet
// merged with the online-offline and RTU tracker sheets, filtered, then
// status-derived per row.
func (s *PageService) LoadDeviceStatus(ctx context.Context, session ports.Session, filter recon.FilterState) (*DeviceStatusView, error) {
	if !session.HasRole(tracker.RoleEquipment) {
		return nil, apperrors.Unauthorized("device status page requires the Equipment role")
	}

	metas, err := s.uploads.ListUploads(ctx)
	if err != nil {
		return nil, err
	}

	primary, err := s.fetchRequired(ctx, metas, tracker.UploadDeviceStatus)
	if err != nil {
		return nil, err
	}

	secondaries := s.fetchOptional(ctx, metas,
		tracker.UploadOnlineOffline, tracker.UploadRtuTracker)

	merged, err := s.pipeline.Merge(primary, secondaries)
	if err != nil {
		return nil, err
	}

	rows := recon.ApplyFilters(merged.Merged.Rows, merged.Merged.Headers, filter)

	tc := s.loadTrackerContext(ctx, false)
	statusRows := s.deriveRows(rows, merged.SiteKey, tc)

	return &DeviceStatusView{
		Headers: merged.Merged.Headers,
		Rows:    statusRows,
		Summary: summary.Compute(tabular.Dataset{Headers: merged.Merged.Headers, Rows: rows}),
		Sources: merged.Sources,
	}, nil
}

// OfflineSiteRow is one offline site plus its derived state.
type OfflineSiteRow struct {
	Site   tracker.OfflineSite  `json:"site"`
	Status tracker.StatusResult `json:"status"`
}

// OfflineSitesView is the offline-sites page model.
type OfflineSitesView struct {
	Sites []OfflineSiteRow `json:"sites"`
}

// LoadOfflineSites derives the resolution state for every offline site.
func (s *PageService) LoadOfflineSites(ctx context.Context, session ports.Session, includeApproved bool) (*OfflineSitesView, error) {
	if !session.HasRole(tracker.RoleEquipment) {
		return nil, apperrors.Unauthorized("offline sites page requires the Equipment role")
	}

	sites, err := s.trackers.ListOfflineSites(ctx, includeApproved)
	if err != nil {
		return nil, err
	}

	tc := s.loadTrackerContext(ctx, false)
	view := &OfflineSitesView{Sites: make([]OfflineSiteRow, 0, len(sites))}
	for _, site := range sites {
		key := recon.NormalizeSiteKey(site.SiteCode)
		result := s.deriver.Derive(site.SiteCode, tc.tasks[key], tc.actions[key], tc.approvals[key], site.OfflineDate)
		view.Sites = append(view.Sites, OfflineSiteRow{Site: site, Status: result})
	}
	return view, nil
}

// RtuTrackerView is the RTU tracker page model.
type RtuTrackerView struct {
	Headers []string            `json:"headers"`
	Rows    []StatusRow         `json:"rows"`
	Sources []recon.SourceMerge `json:"sources"`
}

// LoadRtuTracker runs the RTU tracker chain: the tracker sheet is the
// primary, merged with the online-offline sheet, and status derivation uses
// the RTU tracker approval collection instead of the CCR one.
func (s *PageService) LoadRtuTracker(ctx context.Context, session ports.Session, filter recon.FilterState) (*RtuTrackerView, error) {
	if !session.HasRole(tracker.RoleEquipment) {
		return nil, apperrors.Unauthorized("RTU tracker page requires the Equipment role")
	}

	metas, err := s.uploads.ListUploads(ctx)
	if err != nil {
		return nil, err
	}

	primary, err := s.fetchRequired(ctx, metas, tracker.UploadRtuTracker)
	if err != nil {
		return nil, err
	}

	secondaries := s.fetchOptional(ctx, metas, tracker.UploadOnlineOffline)

	merged, err := s.pipeline.Merge(primary, secondaries)
	if err != nil {
		return nil, err
	}

	rows := recon.ApplyFilters(merged.Merged.Rows, merged.Merged.Headers, filter)

	tc := s.loadTrackerContext(ctx, true)
	return &RtuTrackerView{
		Headers: merged.Merged.Headers,
		Rows:    s.deriveRows(rows, merged.SiteKey, tc),
		Sources: merged.Sources,
	}, nil
}

// fetchRequired locates and fetches the one upload a page cannot render
// without. Failure here is user-visible.
func (s *PageService) fetchRequired(ctx context.Context, metas []tracker.UploadMeta, want tracker.UploadType) (tabular.Dataset, error) {
	meta, ok := uploads.FindLatestUpload(metas, want)
	if !ok {
		return tabular.Dataset{}, apperrors.UploadNotFound(string(want))
	}
	ds, err := s.uploads.GetUpload(ctx, meta.FileID)
	if err != nil {
		return tabular.Dataset{}, err
	}
	return ds, nil
}

// fetchOptional fetches the secondary sheets; a missing upload or a failed
// fetch just drops that source from the merge.
func (s *PageService) fetchOptional(ctx context.Context, metas []tracker.UploadMeta, wants ...tracker.UploadType) []recon.MergeSource {
	var sources []recon.MergeSource
	for _, want := range wants {
		meta, ok := uploads.FindLatestUpload(metas, want)
		if !ok {
			s.log.Warn("no %s upload found, skipping", want)
			continue
		}
		ds, err := s.uploads.GetUpload(ctx, meta.FileID)
		if err != nil {
			s.log.Warn("fetch of %s failed, skipping: %v", meta.Name, err)
			continue
		}
		sources = append(sources, recon.MergeSource{Name: string(want), Dataset: ds})
	}
	return sources
}

// loadTrackerContext pulls the relational collections and indexes them by
// normalized site code. A failed collection degrades to empty; status
// derivation still runs on whatever loaded.
func (s *PageService) loadTrackerContext(ctx context.Context, rtuApprovals bool) trackerContext {
	tc := trackerContext{
		tasks:     make(map[string]*tracker.TaskRecord),
		actions:   make(map[string][]tracker.ActionRecord),
		approvals: make(map[string][]tracker.ApprovalRecord),
		offline:   make(map[string]*time.Time),
	}

	tasks, err := s.trackers.ListTasks(ctx)
	if err != nil {
		s.log.Warn("task list unavailable: %v", err)
	}
	for i := range tasks {
		tc.tasks[recon.NormalizeSiteKey(tasks[i].SiteCode)] = &tasks[i]
	}

	actions, err := s.trackers.ListActions(ctx)
	if err != nil {
		s.log.Warn("action list unavailable: %v", err)
	}
	for _, a := range actions {
		key := recon.NormalizeSiteKey(a.SiteCode)
		tc.actions[key] = append(tc.actions[key], a)
	}

	var approvals []tracker.ApprovalRecord
	if rtuApprovals {
		approvals, err = s.trackers.ListRtuTrackerApprovals(ctx)
	} else {
		approvals, err = s.trackers.ListApprovals(ctx)
	}
	if err != nil {
		s.log.Warn("approval list unavailable: %v", err)
	}
	for _, a := range approvals {
		key := recon.NormalizeSiteKey(a.SiteCode)
		tc.approvals[key] = append(tc.approvals[key], a)
	}

	sites, err := s.trackers.ListOfflineSites(ctx, true)
	if err != nil {
		s.log.Warn("offline-site list unavailable: %v", err)
	}
	for _, site := range sites {
		tc.offline[recon.NormalizeSiteKey(site.SiteCode)] = site.OfflineDate
	}

	return tc
}

// deriveRows attaches the derived status to each merged row.
func (s *PageService) deriveRows(rows []tabular.Row, siteKey string, tc trackerContext) []StatusRow {
	out := make([]StatusRow, 0, len(rows))
	for _, row := range rows {
		site := row.Get(siteKey)
		key := recon.NormalizeSiteKey(site)
		result := s.deriver.Derive(site, tc.tasks[key], tc.actions[key], tc.approvals[key], tc.offline[key])
		out = append(out, StatusRow{Cells: row, Status: result})
	}
	return out
}
