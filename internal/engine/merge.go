package engine

import (
	"fmt"

	"github.com/1cbyc/view0x/internal/diff"
	"github.com/1cbyc/view0x/internal/model"
)

// Merge combines a cached report with a freshly computed one. Cached issues
// the changeset did not touch are carried over; everything near an edit is
// replaced by the fresh results. Duplicate issues (same type, line and
// description) collapse to one, and all summary counts are recomputed from
// the merged lists, never summed from stale totals.
func Merge(cached, fresh *model.Report, cs *diff.ChangeSet, proximity int) *model.Report {
	merged := &model.Report{
		Vulnerabilities:  mergeIssues(cached.Vulnerabilities, fresh.Vulnerabilities, cs, proximity),
		GasOptimizations: mergeIssues(cached.GasOptimizations, fresh.GasOptimizations, cs, proximity),
		CodeQuality:      mergeIssues(cached.CodeQuality, fresh.CodeQuality, cs, proximity),
		DependencyGraph:  fresh.DependencyGraph,
		Cycles:           fresh.Cycles,
		TopologicalOrder: fresh.TopologicalOrder,
		Metadata:         fresh.Metadata,
	}
	merged.Metadata.Incremental = true
	stats := cs.Stats()
	merged.Metadata.ChangeSet = &stats
	merged.Recount()
	return merged
}

func mergeIssues(cached, fresh []model.Issue, cs *diff.ChangeSet, proximity int) []model.Issue {
	_, valid := SplitAffected(cached, cs, proximity)

	seen := map[string]bool{}
	var out []model.Issue
	for _, issue := range append(valid, fresh...) {
		k := dedupeKey(issue)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, issue)
	}
	return out
}

func dedupeKey(issue model.Issue) string {
	line := 0
	if issue.Location != nil {
		line = issue.Location.Line
	}
	return fmt.Sprintf("%s|%d|%s", issue.Type, line, issue.Description)
}
