package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/1cbyc/view0x/internal/model"
)

// Mythril JSON (simplified)
type mythIssue struct {
	SwcID       string `json:"swc-id"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	LineNo      int    `json:"lineno"`
}
type mythOut struct {
	Issues []mythIssue `json:"issues"`
}

func normalizeMythril(raw []byte) ([]model.Issue, error) {
	var o mythOut
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("decode mythril output: %w", err)
	}
	var out []model.Issue
	for _, i := range o.Issues {
		issueType := i.SwcID
		if issueType == "" {
			issueType = i.Title
		}
		var loc *model.Location
		if i.LineNo > 0 {
			loc = &model.Location{Line: i.LineNo, Kind: "line"}
		}
		out = append(out, model.Issue{
			Type:        issueType,
			Severity:    model.ParseSeverity(i.Severity),
			Category:    model.CategoryVulnerability,
			Location:    loc,
			Description: i.Description,
		})
	}
	return out, nil
}
