package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1cbyc/view0x/internal/diff"
	"github.com/1cbyc/view0x/internal/model"
)

func issueAt(typ string, line int) model.Issue {
	return model.Issue{Type: typ, Location: &model.Location{Line: line, Kind: "line"}}
}

func TestSplitAffectedChangedLine(t *testing.T) {
	cs := &diff.ChangeSet{Modified: map[int]bool{50: true}}

	affected, valid := SplitAffected([]model.Issue{
		issueAt("reentrancy", 50),
		issueAt("tx_origin", 200),
	}, cs, 20)

	require.Len(t, affected, 1)
	assert.Equal(t, "reentrancy", affected[0].Type)
	require.Len(t, valid, 1)
	assert.Equal(t, "tx_origin", valid[0].Type)
}

func TestSplitAffectedProximityWindow(t *testing.T) {
	cs := &diff.ChangeSet{Added: map[int]bool{100: true}}

	cases := []struct {
		name     string
		line     int
		affected bool
	}{
		{"on the edit", 100, true},
		{"just inside below", 80, true},
		{"just inside above", 120, true},
		{"just outside below", 79, false},
		{"just outside above", 121, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			affected, valid := SplitAffected([]model.Issue{issueAt("x", tc.line)}, cs, 20)
			if tc.affected {
				assert.Len(t, affected, 1)
				assert.Empty(t, valid)
			} else {
				assert.Empty(t, affected)
				assert.Len(t, valid, 1)
			}
		})
	}
}

func TestSplitAffectedNoLocationAlwaysAffected(t *testing.T) {
	cs := &diff.ChangeSet{}

	affected, valid := SplitAffected([]model.Issue{
		{Type: "missing_parent_contract"},
		{Type: "bad_line", Location: &model.Location{Line: 0}},
	}, cs, 20)

	assert.Len(t, affected, 2)
	assert.Empty(t, valid)
}

// Every issue sitting on a changed line must land in the affected partition,
// no matter where the change falls.
func TestSplitAffectedCoversAllChangedLines(t *testing.T) {
	cs := &diff.ChangeSet{
		Added:    map[int]bool{3: true},
		Modified: map[int]bool{77: true, 150: true},
	}

	var issues []model.Issue
	for line := range cs.Added {
		issues = append(issues, issueAt("a", line))
	}
	for line := range cs.Modified {
		issues = append(issues, issueAt("m", line))
	}

	affected := FilterAffected(issues, cs, 0)
	assert.Len(t, affected, len(issues))
}
