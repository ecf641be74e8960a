package diff

import (
	"github.com/1cbyc/view0x/internal/model"
	"github.com/1cbyc/view0x/internal/util"
)

// LineRange is an inclusive run of contiguous unchanged lines, 1-based.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ChangeSet describes how one revision of a unit differs from its
// predecessor. Added and Modified are disjoint and, together with the
// unchanged ranges, account for every line of the new revision exactly once.
// Removed holds line numbers of the old revision.
type ChangeSet struct {
	Added     map[int]bool `json:"added"`
	Modified  map[int]bool `json:"modified"`
	Removed   map[int]bool `json:"removed"`
	Unchanged []LineRange  `json:"unchanged"`
}

// Changed reports whether line (in the new revision's numbering, or the old
// one for removals) is part of the changeset.
func (c *ChangeSet) Changed(line int) bool {
	return c.Added[line] || c.Modified[line] || c.Removed[line]
}

// ChangedLines returns the union of added, modified and removed line numbers.
func (c *ChangeSet) ChangedLines() map[int]bool {
	out := make(map[int]bool, len(c.Added)+len(c.Modified)+len(c.Removed))
	for l := range c.Added {
		out[l] = true
	}
	for l := range c.Modified {
		out[l] = true
	}
	for l := range c.Removed {
		out[l] = true
	}
	return out
}

func (c *ChangeSet) Stats() model.ChangeSetStats {
	return model.ChangeSetStats{Added: len(c.Added), Modified: len(c.Modified), Removed: len(c.Removed)}
}

// Compute diffs two revisions of the same unit by per-line digest identity.
// This is deliberately not a minimal-edit diff: the only consumer is issue
// invalidation, which needs "did this line change", not a patch. It runs in
// O(n) over the line count and is fully deterministic.
func Compute(oldContent, newContent string) *ChangeSet {
	newLines := util.Lines(newContent)
	if oldContent == newContent {
		return &ChangeSet{
			Added:     map[int]bool{},
			Modified:  map[int]bool{},
			Removed:   map[int]bool{},
			Unchanged: []LineRange{{Start: 1, End: len(newLines)}},
		}
	}
	oldLines := util.Lines(oldContent)
	if oldContent == "" {
		oldLines = nil
	}

	oldDigests := make([]uint64, len(oldLines))
	inOld := make(map[uint64]bool, len(oldLines))
	for i, l := range oldLines {
		oldDigests[i] = util.LineDigest(l)
		inOld[oldDigests[i]] = true
	}
	newDigests := make([]uint64, len(newLines))
	inNew := make(map[uint64]bool, len(newLines))
	for i, l := range newLines {
		newDigests[i] = util.LineDigest(l)
		inNew[newDigests[i]] = true
	}

	cs := &ChangeSet{
		Added:    map[int]bool{},
		Modified: map[int]bool{},
		Removed:  map[int]bool{},
	}

	// Classify every line of the new revision exactly once.
	runStart := 0 // 0 means no open unchanged run
	closeRun := func(end int) {
		if runStart != 0 {
			cs.Unchanged = append(cs.Unchanged, LineRange{Start: runStart, End: end})
			runStart = 0
		}
	}
	for i := range newLines {
		line := i + 1
		switch {
		case i < len(oldLines) && oldDigests[i] == newDigests[i]:
			if runStart == 0 {
				runStart = line
			}
			continue
		case !inOld[newDigests[i]]:
			cs.Added[line] = true
		default:
			// Same position holds different content, but the line's text
			// exists elsewhere in one of the revisions: an in-place edit.
			cs.Modified[line] = true
		}
		closeRun(line - 1)
	}
	closeRun(len(newLines))

	// Old lines whose content no longer appears anywhere, or that fall past
	// the end of the new revision, were removed.
	for i := range oldLines {
		if i >= len(newLines) || !inNew[oldDigests[i]] {
			cs.Removed[i+1] = true
		}
	}

	return cs
}

// Ratio is the fraction of lines touched by the changeset, relative to the
// longer of the two revisions.
func Ratio(cs *ChangeSet, oldContent, newContent string) float64 {
	total := len(util.Lines(oldContent))
	if n := len(util.Lines(newContent)); n > total {
		total = n
	}
	if total == 0 {
		return 1.0
	}
	changed := len(cs.Added) + len(cs.Modified) + len(cs.Removed)
	return float64(changed) / float64(total)
}
