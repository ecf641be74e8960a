package fp

import (
	"encoding/json"
	"fmt"
	"time"
)

// dataset is the JSON shape of the exported false-positive store. It must
// round-trip through Export and Import with no loss of verified status or
// pattern counts.
type dataset struct {
	ReportsByKey     map[string][]*Report        `json:"reportsByKey"`
	LearningPatterns map[string]*LearningPattern `json:"learningPatterns"`
	ExportedAt       time.Time                   `json:"exportedAt"`
}

// Export serializes the full store, reports and learned patterns included.
func (e *Engine) Export() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return json.MarshalIndent(dataset{
		ReportsByKey:     e.reports,
		LearningPatterns: e.patterns,
		ExportedAt:       time.Now().UTC(),
	}, "", "  ")
}

// Import replaces the store with a previously exported dataset. The swap is
// atomic: on any decode failure the existing state is left untouched and the
// caller gets an explicit error.
func (e *Engine) Import(data []byte) error {
	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return fmt.Errorf("decode false positive dataset: %w", err)
	}
	if ds.ReportsByKey == nil {
		ds.ReportsByKey = map[string][]*Report{}
	}
	if ds.LearningPatterns == nil {
		ds.LearningPatterns = map[string]*LearningPattern{}
	}

	e.mu.Lock()
	e.reports = ds.ReportsByKey
	e.patterns = ds.LearningPatterns
	e.mu.Unlock()

	e.log.Info("imported false positive dataset", "groups", len(ds.ReportsByKey))
	return nil
}
