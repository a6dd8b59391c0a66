package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	// t.Chdir equivalent for toolchains before Go 1.24.
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, os.Chdir(oldWD)) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPasses, cfg.MaxPasses)
	assert.False(t, cfg.Trace)
	assert.Empty(t, cfg.SnapshotPath)
}

func TestLoadExplicitMissingFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "funtype.yaml", "max_passes: 8\ntrace: true\nsnapshot: state.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxPasses)
	assert.True(t, cfg.Trace)
	assert.Equal(t, "state.db", cfg.SnapshotPath)
}

func TestLoadAppliesDefaultMaxPasses(t *testing.T) {
	path := writeFile(t, "funtype.yaml", "trace: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPasses, cfg.MaxPasses)
}

func TestLoadRejectsNegativeMaxPasses(t *testing.T) {
	path := writeFile(t, "funtype.yaml", "max_passes: -1\n")

	_, err := Load(path)
	require.ErrorContains(t, err, "max_passes")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeFile(t, "funtype.yaml", "max_passes: [\n")

	_, err := Load(path)
	require.Error(t, err)
}
