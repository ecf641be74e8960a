package engine

import (
	"github.com/1cbyc/view0x/internal/diff"
	"github.com/1cbyc/view0x/internal/model"
)

// SplitAffected partitions issues into those a changeset may have
// invalidated (must be recomputed) and those still valid. An issue is
// affected when its line is itself changed, or lies within proximity lines
// of any changed line, since a nearby edit can alter control flow around an
// untouched line. Issues without a location are always affected: when in
// doubt, re-analyze.
func SplitAffected(issues []model.Issue, cs *diff.ChangeSet, proximity int) (affected, valid []model.Issue) {
	changed := cs.ChangedLines()
	for _, issue := range issues {
		if isAffected(issue, changed, proximity) {
			affected = append(affected, issue)
		} else {
			valid = append(valid, issue)
		}
	}
	return affected, valid
}

// FilterAffected returns only the issues the changeset may have invalidated.
func FilterAffected(issues []model.Issue, cs *diff.ChangeSet, proximity int) []model.Issue {
	affected, _ := SplitAffected(issues, cs, proximity)
	return affected
}

func isAffected(issue model.Issue, changed map[int]bool, proximity int) bool {
	if issue.Location == nil || issue.Location.Line <= 0 {
		return true
	}
	line := issue.Location.Line
	if changed[line] {
		return true
	}
	for c := range changed {
		d := line - c
		if d < 0 {
			d = -d
		}
		if d <= proximity {
			return true
		}
	}
	return false
}
