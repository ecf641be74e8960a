package model

import "time"

type Severity string

const (
	SeverityInfo   Severity = "INFO"
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

func ParseSeverity(s string) Severity {
	switch s {
	case string(SeverityHigh), "CRITICAL", "High", "Critical", "high", "critical":
		return SeverityHigh
	case string(SeverityMedium), "Medium", "medium":
		return SeverityMedium
	case string(SeverityLow), "Low", "low":
		return SeverityLow
	default:
		return SeverityInfo
	}
}

func SeverityGTE(a, b Severity) bool {
	order := map[Severity]int{SeverityInfo: 1, SeverityLow: 2, SeverityMedium: 3, SeverityHigh: 4}
	return order[a] >= order[b]
}

type Category string

const (
	CategoryVulnerability   Category = "vulnerability"
	CategoryGasOptimization Category = "gasOptimization"
	CategoryCodeQuality     Category = "codeQuality"
)

// Location pins an issue to a line of a unit. Kind is the location shape
// used by false-positive pattern matching (e.g. "line", "function").
type Location struct {
	Line  int    `json:"line"`
	Start int    `json:"start,omitempty"`
	End   int    `json:"end,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// Issue is one finding. Issues are never deleted once created; suppression
// only sets the Suppressed flag so the audit trail stays intact.
type Issue struct {
	ID                string    `json:"id,omitempty"`
	Type              string    `json:"type"`
	Severity          Severity  `json:"severity"`
	Category          Category  `json:"category,omitempty"`
	Location          *Location `json:"location,omitempty"`
	Description       string    `json:"description"`
	Recommendation    string    `json:"recommendation,omitempty"`
	Suppressed        bool      `json:"suppressed,omitempty"`
	SuppressionReason string    `json:"suppressionReason,omitempty"`
}

type Summary struct {
	TotalIssues       int      `json:"totalIssues"`
	HighSeverity      int      `json:"highSeverity"`
	MediumSeverity    int      `json:"mediumSeverity"`
	LowSeverity       int      `json:"lowSeverity"`
	InfoSeverity      int      `json:"infoSeverity"`
	GasOptimizations  int      `json:"gasOptimizations"`
	CodeQualityIssues int      `json:"codeQualityIssues"`
	OverallScore      int      `json:"overallScore"`
	RiskLevel         Severity `json:"riskLevel"`
}

type ChangeSetStats struct {
	Added    int `json:"added"`
	Modified int `json:"modified"`
	Removed  int `json:"removed"`
}

type Metadata struct {
	Unit        string          `json:"unit,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	ToolsUsed   []string        `json:"toolsUsed,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Incremental bool            `json:"incremental"`
	CacheHit    bool            `json:"cacheHit"`
	ChangeSet   *ChangeSetStats `json:"changeset,omitempty"`
}

// Report is the consolidated result of one analysis of one unit.
type Report struct {
	Summary          Summary             `json:"summary"`
	Vulnerabilities  []Issue             `json:"vulnerabilities"`
	GasOptimizations []Issue             `json:"gasOptimizations"`
	CodeQuality      []Issue             `json:"codeQuality"`
	DependencyGraph  map[string][]string `json:"dependencyGraph,omitempty"`
	Cycles           [][]string          `json:"cycles,omitempty"`
	TopologicalOrder []string            `json:"topologicalOrder,omitempty"`
	Metadata         Metadata            `json:"metadata"`
}

// AllIssues returns the three category lists as one slice, vulnerabilities first.
func (r *Report) AllIssues() []Issue {
	out := make([]Issue, 0, len(r.Vulnerabilities)+len(r.GasOptimizations)+len(r.CodeQuality))
	out = append(out, r.Vulnerabilities...)
	out = append(out, r.GasOptimizations...)
	out = append(out, r.CodeQuality...)
	return out
}

// Recount rebuilds the summary counts from the issue lists. Summary totals
// are always derived, never carried over from a previous report.
func (r *Report) Recount() {
	s := Summary{
		GasOptimizations:  len(r.GasOptimizations),
		CodeQualityIssues: len(r.CodeQuality),
	}
	for _, v := range r.Vulnerabilities {
		s.TotalIssues++
		switch v.Severity {
		case SeverityHigh:
			s.HighSeverity++
		case SeverityMedium:
			s.MediumSeverity++
		case SeverityLow:
			s.LowSeverity++
		default:
			s.InfoSeverity++
		}
	}
	s.OverallScore = SecurityScore(s)
	s.RiskLevel = RiskLevel(s)
	r.Summary = s
}

// SecurityScore maps severity counts to a 0-100 score, heavier penalties for
// higher severities.
func SecurityScore(s Summary) int {
	penalty := s.HighSeverity*20 + s.MediumSeverity*5 + s.LowSeverity
	if penalty > 100 {
		return 0
	}
	return 100 - penalty
}

func RiskLevel(s Summary) Severity {
	switch {
	case s.HighSeverity > 2:
		return SeverityHigh
	case s.HighSeverity > 0:
		return SeverityMedium
	case s.MediumSeverity > 5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
