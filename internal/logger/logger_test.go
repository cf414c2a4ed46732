package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prep_simulation.log")

	cleanup, err := Setup(path)
	require.NoError(t, err)
	assert.Equal(t, path, Path())

	L().Info("running command", "cmd", "gmx editconf -f conf.gro")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "running command")
	assert.Contains(t, string(data), "gmx editconf -f conf.gro")
}

// A second run over the same log file appends instead of truncating.
func TestSetupAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	cleanup, err := Setup(path)
	require.NoError(t, err)
	L().Info("first run")
	require.NoError(t, cleanup())

	cleanup, err = Setup(path)
	require.NoError(t, err)
	L().Info("second run")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

// Logging before Setup (or after cleanup) must be safe and silent.
func TestLoggerUsableBeforeSetup(t *testing.T) {
	assert.NotPanics(t, func() {
		L().Info("discarded")
	})
	assert.Empty(t, Path())
}
