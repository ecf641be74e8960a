package fp

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1cbyc/view0x/internal/model"
)

func newTestEngine() *Engine {
	return New(Options{}, hclog.NewNullLogger())
}

func TestReportAlwaysAccepted(t *testing.T) {
	e := newTestEngine()
	r := e.Report("issue-1", "reentrancy", "fp-abc", model.Location{Line: 10, Kind: "line"}, "guarded by mutex", "alice")

	require.NotNil(t, r)
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.Verified)
	assert.Equal(t, 1, e.Stats().TotalReports)
	assert.Zero(t, e.Stats().VerifiedReports)
}

func TestVerifyPrefersExactLine(t *testing.T) {
	e := newTestEngine()
	e.Report("i1", "reentrancy", "fp-abc", model.Location{Line: 10, Kind: "line"}, "r1", "")
	e.Report("i2", "reentrancy", "fp-abc", model.Location{Line: 12, Kind: "line"}, "r2", "")

	assert.True(t, e.Verify("reentrancy", "fp-abc", model.Location{Line: 12}))

	s := e.Stats()
	assert.Equal(t, 1, s.VerifiedReports)
	require.Contains(t, s.LearningPatterns, "reentrancy")
	require.Len(t, s.LearningPatterns["reentrancy"].Patterns, 1)
	assert.Equal(t, "r2", s.LearningPatterns["reentrancy"].Patterns[0].Reason)
}

func TestVerifyWithinTolerance(t *testing.T) {
	e := newTestEngine()
	e.Report("i1", "tx_origin", "fp-abc", model.Location{Line: 10, Kind: "line"}, "auth helper", "")

	assert.True(t, e.Verify("tx_origin", "fp-abc", model.Location{Line: 13}))
	assert.False(t, e.Verify("tx_origin", "fp-abc", model.Location{Line: 13}), "already verified")
}

func TestVerifyNoMatch(t *testing.T) {
	e := newTestEngine()
	e.Report("i1", "tx_origin", "fp-abc", model.Location{Line: 10, Kind: "line"}, "r", "")

	assert.False(t, e.Verify("tx_origin", "fp-abc", model.Location{Line: 100}))
	assert.False(t, e.Verify("tx_origin", "fp-other", model.Location{Line: 10}))
}

func TestShouldSuppressVerifiedLocationMatch(t *testing.T) {
	e := newTestEngine()
	e.Report("i1", "reentrancy", "fp-abc", model.Location{Line: 10, Kind: "line"}, "guarded", "")

	assert.False(t, e.ShouldSuppress("reentrancy", "fp-abc", model.Location{Line: 10}), "unverified reports do not suppress")

	require.True(t, e.Verify("reentrancy", "fp-abc", model.Location{Line: 10}))
	assert.True(t, e.ShouldSuppress("reentrancy", "fp-abc", model.Location{Line: 10}))
	assert.True(t, e.ShouldSuppress("reentrancy", "fp-abc", model.Location{Line: 12}), "within tolerance")
	assert.False(t, e.ShouldSuppress("reentrancy", "fp-abc", model.Location{Line: 40}))
}

// Two verified reports with an identical pattern are not enough evidence to
// generalize; the third crosses the floor.
func TestSuppressionThreshold(t *testing.T) {
	e := newTestEngine()

	fingerprints := []string{"fp-1", "fp-2", "fp-3"}
	for i, fpr := range fingerprints {
		e.Report("i", "magic_number", fpr, model.Location{Line: 5, Kind: "line"}, "test constant", "")
		require.True(t, e.Verify("magic_number", fpr, model.Location{Line: 5}))

		suppress := e.ShouldSuppress("magic_number", "fp-new", model.Location{Line: 99, Kind: "line"})
		if i < 2 {
			assert.Falsef(t, suppress, "%d verified reports must not suppress", i+1)
		} else {
			assert.True(t, suppress, "3 verified reports with confidence 1.0 suppress")
		}
	}
}

func TestSuppressionRequiresMatchingLocationKind(t *testing.T) {
	e := newTestEngine()
	for _, fpr := range []string{"fp-1", "fp-2", "fp-3"} {
		e.Report("i", "magic_number", fpr, model.Location{Line: 5, Kind: "constructor"}, "ctor constant", "")
		require.True(t, e.Verify("magic_number", fpr, model.Location{Line: 5}))
	}

	assert.True(t, e.ShouldSuppress("magic_number", "fp-new", model.Location{Line: 9, Kind: "constructor"}))
	assert.False(t, e.ShouldSuppress("magic_number", "fp-new", model.Location{Line: 9, Kind: "line"}))
}

func TestFilterFlagsWithoutDropping(t *testing.T) {
	e := newTestEngine()
	e.Report("i1", "reentrancy", "fp-abc", model.Location{Line: 10, Kind: "line"}, "guarded", "")
	require.True(t, e.Verify("reentrancy", "fp-abc", model.Location{Line: 10}))

	issues := []model.Issue{
		{Type: "reentrancy", Location: &model.Location{Line: 10, Kind: "line"}, Description: "call before state update"},
		{Type: "tx_origin", Location: &model.Location{Line: 30, Kind: "line"}, Description: "tx.origin used"},
	}
	out := e.Filter(issues, "fp-abc")

	require.Len(t, out, 2, "suppressed issues stay in the list")
	assert.True(t, out[0].Suppressed)
	assert.Equal(t, "Known false positive", out[0].SuppressionReason)
	assert.False(t, out[1].Suppressed)

	// Inputs are never mutated.
	assert.False(t, issues[0].Suppressed)
}

func TestExportImportRoundTrip(t *testing.T) {
	e := newTestEngine()
	e.Report("i1", "reentrancy", "fp-abc", model.Location{Line: 10, Kind: "line"}, "guarded", "alice")
	e.Report("i2", "magic_number", "fp-def", model.Location{Line: 3, Kind: "line"}, "test constant", "bob")
	require.True(t, e.Verify("reentrancy", "fp-abc", model.Location{Line: 10}))

	data, err := e.Export()
	require.NoError(t, err)

	restored := newTestEngine()
	require.NoError(t, restored.Import(data))

	want, got := e.Stats(), restored.Stats()
	assert.Equal(t, want.TotalReports, got.TotalReports)
	assert.Equal(t, want.VerifiedReports, got.VerifiedReports)
	assert.Equal(t, want.IssueTypeCounts, got.IssueTypeCounts)
	assert.Equal(t, want.LearningPatterns, got.LearningPatterns)

	// Verified state survives: suppression decisions match.
	assert.True(t, restored.ShouldSuppress("reentrancy", "fp-abc", model.Location{Line: 10}))
}

func TestImportFailureLeavesStateUntouched(t *testing.T) {
	e := newTestEngine()
	e.Report("i1", "reentrancy", "fp-abc", model.Location{Line: 10, Kind: "line"}, "guarded", "")

	err := e.Import([]byte("{not json"))
	require.Error(t, err)
	assert.Equal(t, 1, e.Stats().TotalReports)
}
