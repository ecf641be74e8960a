package scanners

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/1cbyc/view0x/internal/model"
	"github.com/1cbyc/view0x/internal/util"
)

type gasChecks struct{}

func (g *gasChecks) Meta() Meta {
	return Meta{ID: "GAS-BASE-000", Title: "Gas optimization heuristics", Severity: model.SeverityInfo, Category: model.CategoryGasOptimization}
}

var (
	loopHeaderRe  = regexp.MustCompile(`\bfor\s*\(`)
	storageLoopRe = regexp.MustCompile(`\.length\b`)
	incDecRe      = regexp.MustCompile(`\+\+|--`)
)

func (g *gasChecks) Analyze(_ context.Context, _ string, content string) ([]model.Issue, error) {
	var issues []model.Issue
	lines := util.Lines(content)

	for i, line := range lines {
		num := i + 1

		if loopHeaderRe.MatchString(line) && storageLoopRe.MatchString(line) {
			issues = append(issues, model.Issue{
				Type:           "loop_storage_length",
				Severity:       model.SeverityInfo,
				Category:       model.CategoryGasOptimization,
				Location:       &model.Location{Line: num, Kind: "line"},
				Description:    fmt.Sprintf("Loop condition reads .length on every iteration (line %d)", num),
				Recommendation: "Cache the array length in a local variable before the loop.",
			})
		}

		if incDecRe.MatchString(line) && !strings.Contains(line, "unchecked") {
			issues = append(issues, model.Issue{
				Type:           "unchecked_increment",
				Severity:       model.SeverityInfo,
				Category:       model.CategoryGasOptimization,
				Location:       &model.Location{Line: num, Kind: "line"},
				Description:    fmt.Sprintf("Increment/decrement without unchecked block (line %d)", num),
				Recommendation: "Wrap counters that cannot overflow in an unchecked block to save gas.",
			})
		}
	}

	return issues, nil
}
