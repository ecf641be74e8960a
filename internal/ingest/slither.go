package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/1cbyc/view0x/internal/model"
)

// Slither JSON (simplified)
type slitherLocation struct {
	Filename string `json:"filename"`
	Lines    []int  `json:"lines"`
}
type slitherDetection struct {
	Check       string `json:"check"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
	Elements    []struct {
		SourceMapping slitherLocation `json:"source_mapping"`
	} `json:"elements"`
}
type slitherOut struct {
	Results struct {
		Detectors []slitherDetection `json:"detectors"`
	} `json:"results"`
}

func normalizeSlither(raw []byte) ([]model.Issue, error) {
	var o slitherOut
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("decode slither output: %w", err)
	}
	var out []model.Issue
	for _, d := range o.Results.Detectors {
		var loc *model.Location
		if len(d.Elements) > 0 && len(d.Elements[0].SourceMapping.Lines) > 0 {
			lines := d.Elements[0].SourceMapping.Lines
			loc = &model.Location{Line: lines[0], Kind: "line"}
		}
		out = append(out, model.Issue{
			Type:        d.Check,
			Severity:    model.ParseSeverity(d.Impact),
			Category:    model.CategoryVulnerability,
			Location:    loc,
			Description: d.Description,
		})
	}
	return out, nil
}
