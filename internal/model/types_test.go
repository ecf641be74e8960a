package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityHigh, ParseSeverity("Critical"))
	assert.Equal(t, SeverityHigh, ParseSeverity("high"))
	assert.Equal(t, SeverityMedium, ParseSeverity("Medium"))
	assert.Equal(t, SeverityLow, ParseSeverity("low"))
	assert.Equal(t, SeverityInfo, ParseSeverity("Informational"))
	assert.Equal(t, SeverityInfo, ParseSeverity(""))
}

func TestSecurityScore(t *testing.T) {
	cases := []struct {
		name string
		s    Summary
		want int
	}{
		{"clean", Summary{}, 100},
		{"mixed", Summary{HighSeverity: 1, MediumSeverity: 2, LowSeverity: 3}, 100 - 20 - 10 - 3},
		{"floored at zero", Summary{HighSeverity: 6}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SecurityScore(tc.s))
		})
	}
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, SeverityHigh, RiskLevel(Summary{HighSeverity: 3}))
	assert.Equal(t, SeverityMedium, RiskLevel(Summary{HighSeverity: 1}))
	assert.Equal(t, SeverityMedium, RiskLevel(Summary{MediumSeverity: 6}))
	assert.Equal(t, SeverityLow, RiskLevel(Summary{MediumSeverity: 5, LowSeverity: 40}))
}

func TestRecount(t *testing.T) {
	r := &Report{
		Summary: Summary{TotalIssues: 99, OverallScore: 1},
		Vulnerabilities: []Issue{
			{Severity: SeverityHigh},
			{Severity: SeverityMedium},
			{Severity: SeverityInfo},
		},
		GasOptimizations: []Issue{{Severity: SeverityInfo}},
		CodeQuality:      []Issue{{Severity: SeverityLow}, {Severity: SeverityLow}},
	}
	r.Recount()

	assert.Equal(t, 3, r.Summary.TotalIssues)
	assert.Equal(t, 1, r.Summary.HighSeverity)
	assert.Equal(t, 1, r.Summary.MediumSeverity)
	assert.Equal(t, 1, r.Summary.InfoSeverity)
	assert.Equal(t, 1, r.Summary.GasOptimizations)
	assert.Equal(t, 2, r.Summary.CodeQualityIssues)
	assert.Equal(t, 100-20-5, r.Summary.OverallScore)
	assert.Equal(t, SeverityMedium, r.Summary.RiskLevel)
}

func TestAllIssuesOrder(t *testing.T) {
	r := &Report{
		Vulnerabilities:  []Issue{{Type: "v"}},
		GasOptimizations: []Issue{{Type: "g"}},
		CodeQuality:      []Issue{{Type: "q"}},
	}
	all := r.AllIssues()
	assert.Equal(t, []string{"v", "g", "q"}, []string{all[0].Type, all[1].Type, all[2].Type})
}
