package fp

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/1cbyc/view0x/internal/model"
)

const (
	DefaultLocationTolerance   = 5
	DefaultMinVerifiedReports  = 3
	DefaultConfidenceThreshold = 0.7
)

// Report records that a human judged a specific issue incorrect. Reports are
// append-only: the only mutation ever applied is flipping Verified.
type Report struct {
	ID              string         `json:"id"`
	IssueID         string         `json:"issueId"`
	IssueType       string         `json:"issueType"`
	UnitFingerprint string         `json:"unitFingerprint"`
	Location        model.Location `json:"location"`
	Reason          string         `json:"reason"`
	ReportedBy      string         `json:"reportedBy,omitempty"`
	ReportedAt      time.Time      `json:"reportedAt"`
	Verified        bool           `json:"verified"`
}

// Pattern is one (reason, location-kind) aggregate inside a LearningPattern.
type Pattern struct {
	Reason       string `json:"reason"`
	LocationKind string `json:"locationKind"`
	Count        int    `json:"count"`
}

// LearningPattern aggregates verified false positives per issue type.
type LearningPattern struct {
	FalsePositiveCount int        `json:"falsePositiveCount"`
	Patterns           []*Pattern `json:"patterns"`
}

// Options tunes the heuristic constants. The values are a product decision,
// not a correctness requirement, so they are configurable rather than
// hard-coded. Zero values fall back to defaults.
type Options struct {
	LocationTolerance   int
	MinVerifiedReports  int
	ConfidenceThreshold float64
}

func (o Options) withDefaults() Options {
	if o.LocationTolerance <= 0 {
		o.LocationTolerance = DefaultLocationTolerance
	}
	if o.MinVerifiedReports <= 0 {
		o.MinVerifiedReports = DefaultMinVerifiedReports
	}
	if o.ConfidenceThreshold <= 0 {
		o.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	return o
}

// Engine learns from human-confirmed false positives and suppresses
// recurring noise in future reports. All suppression is probabilistic and
// reversible by data update; nothing is ever deleted.
type Engine struct {
	mu       sync.Mutex
	reports  map[string][]*Report // (issueType:unitFingerprint) -> reports
	patterns map[string]*LearningPattern
	opts     Options
	log      hclog.Logger
}

func New(opts Options, log hclog.Logger) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{
		reports:  map[string][]*Report{},
		patterns: map[string]*LearningPattern{},
		opts:     opts.withDefaults(),
		log:      log.Named("fp"),
	}
}

func key(issueType, unitFingerprint string) string {
	return issueType + ":" + unitFingerprint
}

// Report appends an unverified false-positive report. Reports are always
// accepted; verification is a separate administrative step.
func (e *Engine) Report(issueID, issueType, unitFingerprint string, loc model.Location, reason, reportedBy string) *Report {
	r := &Report{
		ID:              uuid.NewString(),
		IssueID:         issueID,
		IssueType:       issueType,
		UnitFingerprint: unitFingerprint,
		Location:        loc,
		Reason:          reason,
		ReportedBy:      reportedBy,
		ReportedAt:      time.Now().UTC(),
	}

	e.mu.Lock()
	e.reports[key(issueType, unitFingerprint)] = append(e.reports[key(issueType, unitFingerprint)], r)
	e.mu.Unlock()

	e.log.Info("false positive reported", "issue", issueID, "type", issueType)
	return r
}

// Verify marks a matching report as verified (administrative action) and
// folds it into the type's learning pattern. An exact line match wins over a
// within-tolerance match. Returns false when no unverified report matches.
func (e *Engine) Verify(issueType, unitFingerprint string, loc model.Location) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	reports := e.reports[key(issueType, unitFingerprint)]

	var match *Report
	for _, r := range reports {
		if !r.Verified && r.Location.Line == loc.Line {
			match = r
			break
		}
	}
	if match == nil {
		for _, r := range reports {
			if !r.Verified && e.locationMatches(r.Location, loc) {
				match = r
				break
			}
		}
	}
	if match == nil {
		return false
	}

	match.Verified = true
	e.learn(match)
	e.log.Info("false positive verified", "issue", match.IssueID, "type", issueType)
	return true
}

// learn updates the per-type aggregate. Called with e.mu held, and only on
// the unverified-to-verified transition so counts never double.
func (e *Engine) learn(r *Report) {
	lp := e.patterns[r.IssueType]
	if lp == nil {
		lp = &LearningPattern{}
		e.patterns[r.IssueType] = lp
	}
	lp.FalsePositiveCount++

	kind := locationKind(&r.Location)
	for _, p := range lp.Patterns {
		if p.Reason == r.Reason && p.LocationKind == kind {
			p.Count++
			return
		}
	}
	lp.Patterns = append(lp.Patterns, &Pattern{Reason: r.Reason, LocationKind: kind, Count: 1})
}

func (e *Engine) locationMatches(a, b model.Location) bool {
	if a.Line == 0 || b.Line == 0 {
		return false
	}
	if a.Line == b.Line {
		return true
	}
	d := a.Line - b.Line
	if d < 0 {
		d = -d
	}
	return d <= e.opts.LocationTolerance
}

func locationKind(loc *model.Location) string {
	if loc == nil || loc.Kind == "" {
		return "line"
	}
	return loc.Kind
}

// ShouldSuppress decides whether a new issue of this type and location is
// probably the same false positive a human already confirmed. True when a
// verified report matches the location directly, or when the type has
// accumulated at least MinVerifiedReports verified reports and the matching
// location-kind pattern carries enough of them to clear the confidence
// threshold.
func (e *Engine) ShouldSuppress(issueType, unitFingerprint string, loc model.Location) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range e.reports[key(issueType, unitFingerprint)] {
		if r.Verified && e.locationMatches(r.Location, loc) {
			return true
		}
	}

	lp := e.patterns[issueType]
	if lp == nil || lp.FalsePositiveCount < e.opts.MinVerifiedReports {
		return false
	}
	kind := locationKind(&loc)
	for _, p := range lp.Patterns {
		if p.LocationKind != kind {
			continue
		}
		confidence := float64(p.Count) / float64(lp.FalsePositiveCount)
		if confidence > 1.0 {
			confidence = 1.0
		}
		if confidence >= e.opts.ConfidenceThreshold {
			return true
		}
	}
	return false
}

// Filter applies suppression to a list of issues. Suppressed issues stay in
// the list with the Suppressed flag and a reason; nothing is silently
// dropped, so reports remain auditable.
func (e *Engine) Filter(issues []model.Issue, unitFingerprint string) []model.Issue {
	out := make([]model.Issue, len(issues))
	for i, issue := range issues {
		out[i] = issue
		loc := model.Location{Kind: "line"}
		if issue.Location != nil {
			loc = *issue.Location
		}
		if e.ShouldSuppress(issue.Type, unitFingerprint, loc) {
			out[i].Suppressed = true
			out[i].SuppressionReason = "Known false positive"
		}
	}
	return out
}

// Stats summarizes the recorded reports and learned patterns.
type Stats struct {
	TotalReports     int                         `json:"totalReports"`
	VerifiedReports  int                         `json:"verifiedReports"`
	IssueTypeCounts  map[string]int              `json:"issueTypeCounts"`
	LearningPatterns map[string]*LearningPattern `json:"learningPatterns"`
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{IssueTypeCounts: map[string]int{}, LearningPatterns: map[string]*LearningPattern{}}
	for _, reports := range e.reports {
		for _, r := range reports {
			s.TotalReports++
			if r.Verified {
				s.VerifiedReports++
			}
			s.IssueTypeCounts[r.IssueType]++
		}
	}
	for t, lp := range e.patterns {
		cp := &LearningPattern{FalsePositiveCount: lp.FalsePositiveCount}
		for _, p := range lp.Patterns {
			pc := *p
			cp.Patterns = append(cp.Patterns, &pc)
		}
		s.LearningPatterns[t] = cp
	}
	return s
}
