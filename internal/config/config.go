package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileName is discovered by upward directory search from the analyzed path.
const FileName = ".view0x.json"

// Config carries the engine's heuristic constants. The defaults mirror the
// calibration the product shipped with; they are tunable because their exact
// values are a product decision rather than a correctness requirement.
type Config struct {
	ProximityWindow     int     `json:"proximityWindow"`
	DeepChainThreshold  int     `json:"deepChainThreshold"`
	LocationTolerance   int     `json:"locationTolerance"`
	MinVerifiedReports  int     `json:"minVerifiedReports"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
	CacheTTLHours       int     `json:"cacheTtlHours"`
	MaxChangeRatio      float64 `json:"maxChangeRatio"`
	RedisURL            string  `json:"redisUrl,omitempty"`
}

func Default() Config {
	return Config{
		ProximityWindow:     20,
		DeepChainThreshold:  5,
		LocationTolerance:   5,
		MinVerifiedReports:  3,
		ConfidenceThreshold: 0.7,
		CacheTTLHours:       24,
		MaxChangeRatio:      0.5,
	}
}

// Load searches upwards from startDir for a config file and overlays it on
// the defaults. A missing file is not an error.
func Load(startDir string) (Config, string, error) {
	cfg := Default()
	dir := startDir
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			b, err := os.ReadFile(candidate)
			if err != nil {
				return cfg, candidate, err
			}
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, candidate, err
			}
			return cfg, candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached root
			break
		}
		dir = parent
	}
	return cfg, "", nil
}
