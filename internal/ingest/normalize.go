// Package ingest converts the JSON emitted by external scanner tools into
// the engine's issue model. It is a pure data transformation: running the
// tools, and their timeouts, belongs to the collaborators that invoke them.
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/1cbyc/view0x/internal/model"
)

// Normalize converts known tool outputs into issues. Unknown tool names fall
// back to decoding a plain issue array.
func Normalize(tool string, raw []byte) ([]model.Issue, error) {
	switch tool {
	case "slither":
		return normalizeSlither(raw)
	case "mythril", "myth":
		return normalizeMythril(raw)
	default:
		var out []model.Issue
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode %s findings: %w", tool, err)
		}
		return out, nil
	}
}
