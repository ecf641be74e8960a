package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1cbyc/view0x/internal/util"
)

func TestComputeIdenticalContent(t *testing.T) {
	content := "pragma solidity 0.8.20;\ncontract A {\n  uint x;\n}"
	cs := Compute(content, content)

	assert.Empty(t, cs.Added)
	assert.Empty(t, cs.Modified)
	assert.Empty(t, cs.Removed)
	require.Len(t, cs.Unchanged, 1)
	assert.Equal(t, LineRange{Start: 1, End: 4}, cs.Unchanged[0])
}

func TestComputeEmptyOld(t *testing.T) {
	cs := Compute("", "a\nb\nc")
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, cs.Added)
	assert.Empty(t, cs.Modified)
	assert.Empty(t, cs.Removed)
	assert.Empty(t, cs.Unchanged)
}

func TestComputeClassification(t *testing.T) {
	oldContent := "alpha\nbeta\ngamma\ndelta"
	newContent := "alpha\nchanged\ngamma\ndelta\nextra"
	cs := Compute(oldContent, newContent)

	// "changed" is brand new text at index 2; "beta" is gone entirely.
	assert.True(t, cs.Added[2])
	assert.True(t, cs.Added[5])
	assert.True(t, cs.Removed[2])
	assert.False(t, cs.Changed(1))
	assert.False(t, cs.Changed(3))
}

func TestComputeModifiedWhenLineMoved(t *testing.T) {
	oldContent := "one\ntwo\nthree"
	newContent := "two\none\nthree"
	cs := Compute(oldContent, newContent)

	// Both positions hold text that still exists elsewhere: in-place edits.
	assert.True(t, cs.Modified[1])
	assert.True(t, cs.Modified[2])
	assert.Empty(t, cs.Added)
	assert.Empty(t, cs.Removed)
}

// Every line of the new revision must land in exactly one of added,
// modified, or an unchanged range.
func TestComputeCoverage(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"disjoint", "a\nb\nc", "x\ny"},
		{"overlap", "a\nb\nc\nd", "a\nx\nc\nd\ne"},
		{"shrink", "a\nb\nc\nd\ne", "a\ne"},
		{"grow", "a", "a\nb\nc\nd"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cs := Compute(tc.old, tc.new)
			for i := range util.Lines(tc.new) {
				line := i + 1
				count := 0
				if cs.Added[line] {
					count++
				}
				if cs.Modified[line] {
					count++
				}
				for _, r := range cs.Unchanged {
					if line >= r.Start && line <= r.End {
						count++
					}
				}
				assert.Equalf(t, 1, count, "line %d covered %d times", line, count)
			}
		})
	}
}

func TestUnchangedRangesCoalesced(t *testing.T) {
	oldContent := "a\nb\nc\nd\ne\nf"
	newContent := "a\nb\nX\nd\ne\nf"
	cs := Compute(oldContent, newContent)

	require.Len(t, cs.Unchanged, 2)
	assert.Equal(t, LineRange{Start: 1, End: 2}, cs.Unchanged[0])
	assert.Equal(t, LineRange{Start: 4, End: 6}, cs.Unchanged[1])
}

func TestRatio(t *testing.T) {
	oldContent := strings.Repeat("same\n", 9) + "same"
	newContent := strings.Repeat("same\n", 9) + "different"
	cs := Compute(oldContent, newContent)
	assert.InDelta(t, 0.1, Ratio(cs, oldContent, newContent), 0.001)

	identical := Compute(oldContent, oldContent)
	assert.Zero(t, Ratio(identical, oldContent, oldContent))
}
