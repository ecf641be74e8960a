package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/1cbyc/view0x/internal/model"
)

const toolName = "view0x"

// WriteSARIF renders a merged report as SARIF 2.1.0. Suppressed issues are
// included with their suppression state so downstream viewers can hide them
// without losing the audit trail.
func WriteSARIF(r *model.Report, w io.Writer) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create sarif report: %w", err)
	}
	run := sarif.NewRunWithInformationURI(toolName, "https://github.com/1cbyc/view0x")

	rules := map[string]bool{}
	for _, issue := range r.AllIssues() {
		if !rules[issue.Type] {
			rules[issue.Type] = true
			run.AddRule(issue.Type).WithDescription(issue.Recommendation)
		}

		result := run.CreateResultForRule(issue.Type).
			WithLevel(sarifLevel(issue.Severity)).
			WithMessage(sarif.NewTextMessage(issue.Description))
		if issue.Location != nil && issue.Location.Line > 0 {
			endLine := issue.Location.Line
			result.WithLocations([]*sarif.Location{
				sarif.NewLocationWithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewSimpleArtifactLocation(r.Metadata.Unit)).
						WithRegion(sarif.NewSimpleRegion(issue.Location.Line, endLine)),
				),
			})
		}
		if issue.Suppressed {
			bag := sarif.NewPropertyBag()
			bag.Add("suppressed", true)
			bag.Add("suppressionReason", issue.SuppressionReason)
			result.AttachPropertyBag(bag)
		}
	}

	doc.AddRun(run)
	return doc.Write(w)
}

func sarifLevel(sev model.Severity) string {
	switch sev {
	case model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
