package recon

import (
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/errors"
)

// MergeSource is one secondary dataset to fold into the primary view.
type MergeSource struct {
	Name    string
	Dataset tabular.Dataset
}

// SourceMerge reports what happened to one secondary source.
type SourceMerge struct {
	Name    string
	Group   *tabular.ColumnGroup
	Joined  bool
	Skipped string
}

// MergeResult is the reconciled primary view plus per-source outcomes.
type MergeResult struct {
	Merged  tabular.Dataset
	SiteKey string
	Sources []SourceMerge
}

// Pipeline reconciles a primary device registry with any number of dated
// secondary datasets. One parametrized implementation serves every page;
// call sites differ only in which secondaries they pull and which filters
// they apply afterwards.
type Pipeline struct {
	log *internal.Logger
}

// NewPipeline creates a merge pipeline.
func NewPipeline(log *internal.Logger) *Pipeline {
	if log == nil {
		log = internal.NewDefaultLogger("MergePipeline")
	}
	return &Pipeline{log: log}
}

// Merge runs the full reconciliation: resolve the primary site key, then
// for each secondary detect its dated column groups, select the latest,
// and left-join its members in; finally dedupe serial columns and relocate
// the identity anchors so merged columns trail them.
//
// A secondary whose site-code column cannot be resolved is skipped, never
// an error. Only a missing primary site-code column is fatal. Merging the
// same inputs twice yields the identical result: joins overwrite rather
// than accumulate, and surgery is idempotent.
func (p *Pipeline) Merge(primary tabular.Dataset, secondaries []MergeSource) (*MergeResult, error) {
	siteKey, ok := ResolveSiteCode(primary.Headers)
	if !ok {
		return nil, errors.MissingColumn("site code")
	}

	merged := primary.Clone()
	result := &MergeResult{SiteKey: siteKey}
	var mergedColumns []string

	for _, src := range secondaries {
		outcome := SourceMerge{Name: src.Name}
		secKey, ok := ResolveSiteCode(src.Dataset.Headers)
		if !ok {
			outcome.Skipped = "site-code column not found"
			p.log.Warn("skipping %s: site-code column not found", src.Name)
			result.Sources = append(result.Sources, outcome)
			continue
		}

		groups := GroupDateColumns(src.Dataset.Headers, secKey)
		latest := SelectLatestGroup(groups)
		if latest == nil || len(latest.MemberHeaders) == 0 {
			outcome.Skipped = "no usable column group"
			p.log.Warn("skipping %s: no usable column group", src.Name)
			result.Sources = append(result.Sources, outcome)
			continue
		}

		merged = JoinOnSiteKey(merged, siteKey, src.Dataset, secKey, *latest)
		mergedColumns = append(mergedColumns, latest.MemberHeaders...)
		outcome.Group = latest
		outcome.Joined = true
		result.Sources = append(result.Sources, outcome)
		p.log.Debug("merged %s: %d columns from group %q", src.Name, len(latest.MemberHeaders), latest.DateHeader)
	}

	attrKey, _ := ResolveHeader(merged.Headers, AttributeCandidates, "attribute")

	deduped := DedupeSerialColumns(merged.Headers)
	dropSet := headerDiff(merged.Headers, deduped)
	merged.Headers = ReorderAroundAnchor(deduped, siteKey, attrKey, mergedColumns)
	if len(dropSet) > 0 {
		for _, row := range merged.Rows {
			for h := range dropSet {
				delete(row, h)
			}
		}
	}

	result.Merged = merged
	return result, nil
}

// headerDiff returns the headers present in before but not in after.
func headerDiff(before, after []string) map[string]struct{} {
	kept := make(map[string]struct{}, len(after))
	for _, h := range after {
		kept[h] = struct{}{}
	}
	diff := make(map[string]struct{})
	for _, h := range before {
		if _, ok := kept[h]; !ok {
			diff[h] = struct{}{}
		}
	}
	return diff
}
