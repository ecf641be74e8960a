package scanners

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/1cbyc/view0x/internal/model"
	"github.com/1cbyc/view0x/internal/util"
)

type qualityChecks struct{}

func (q *qualityChecks) Meta() Meta {
	return Meta{ID: "QUALITY-BASE-000", Title: "Code quality heuristics", Severity: model.SeverityLow, Category: model.CategoryCodeQuality}
}

var (
	floatingPragmaRe = regexp.MustCompile(`pragma\s+solidity\s*\^`)
	magicNumberRe    = regexp.MustCompile(`[=<>+\-*/(,]\s*(\d{3,})\b`)
)

func (q *qualityChecks) Analyze(_ context.Context, _ string, content string) ([]model.Issue, error) {
	var issues []model.Issue
	lines := util.Lines(content)

	if !strings.Contains(content, "SPDX-License-Identifier") {
		issues = append(issues, model.Issue{
			Type:           "missing_license",
			Severity:       model.SeverityInfo,
			Category:       model.CategoryCodeQuality,
			Location:       &model.Location{Line: 1, Kind: "line"},
			Description:    "No SPDX license identifier found",
			Recommendation: "Add an SPDX-License-Identifier comment at the top of the unit.",
		})
	}

	if floatingPragmaRe.MatchString(content) {
		start, _ := util.FindLineRange(content, "pragma solidity")
		issues = append(issues, model.Issue{
			Type:           "floating_pragma",
			Severity:       model.SeverityLow,
			Category:       model.CategoryCodeQuality,
			Location:       &model.Location{Line: start, Kind: "line"},
			Description:    "Floating pragma version",
			Recommendation: "Pin the compiler version to avoid building with untested releases.",
		})
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if m := magicNumberRe.FindStringSubmatch(line); m != nil && !strings.Contains(line, "constant") {
			issues = append(issues, model.Issue{
				Type:           "magic_number",
				Severity:       model.SeverityInfo,
				Category:       model.CategoryCodeQuality,
				Location:       &model.Location{Line: i + 1, Kind: "line"},
				Description:    fmt.Sprintf("Magic number %s used directly", m[1]),
				Recommendation: "Name the value as a constant so its intent is documented.",
			})
		}
	}

	return issues, nil
}
