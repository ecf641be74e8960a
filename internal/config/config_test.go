package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFindsFileUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "contracts", "src")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName),
		[]byte(`{"proximityWindow": 40, "maxChangeRatio": 0.3}`), 0o644))

	cfg, path, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), path)
	assert.Equal(t, 40, cfg.ProximityWindow)
	assert.Equal(t, 0.3, cfg.MaxChangeRatio)
	// Fields the file omits keep their defaults.
	assert.Equal(t, 5, cfg.LocationTolerance)
	assert.Equal(t, 24, cfg.CacheTTLHours)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{"), 0o644))

	_, path, err := Load(dir)
	require.Error(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)
}
