package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg, "absent config file should yield the defaults")
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
gmx: gmx_mpi
saltConcentration: 0.10
positiveIon: K
maxWarnEquil: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gmxpipe.yaml"), []byte(content), 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, "gmx_mpi", cfg.Gmx)
	assert.InDelta(t, 0.10, cfg.SaltConcentration, 1e-9)
	assert.Equal(t, "K", cfg.PositiveIon)
	assert.Equal(t, 3, cfg.MaxWarnEquil)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "cubic", cfg.BoxType)
	assert.Equal(t, "CL", cfg.NegativeIon)
}

// JSONC config files may carry comments and trailing commas, like
// devcontainer.json does.
func TestLoadJSONC(t *testing.T) {
	dir := t.TempDir()
	content := `{
  // run inside the official image
  "container": "gromacs/gromacs",
  "clearance": 1.2,
  "boxType": "dodecahedron",
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gmxpipe.jsonc"), []byte(content), 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, "gromacs/gromacs", cfg.Container)
	assert.InDelta(t, 1.2, cfg.Clearance, 1e-9)
	assert.Equal(t, "dodecahedron", cfg.BoxType)
	assert.Equal(t, "gmx", cfg.Gmx)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), ".")
	require.Error(t, err, "an explicitly given config file must exist")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmxpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - bad"), 0o644))

	_, err := Load(path, ".")
	require.Error(t, err)
}

// Discovery walks upward so one project-root config covers runs in
// per-simulation subdirectories.
func TestDiscoverWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "runs", "lysozyme")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path := filepath.Join(root, "gmxpipe.yml")
	require.NoError(t, os.WriteFile(path, []byte("gmx: gmx_d\n"), 0o644))

	found, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestDiscoverPrefersNearest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "gmxpipe.yaml"), []byte("gmx: outer\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "gmxpipe.yaml"), []byte("gmx: inner\n"), 0o644))

	found, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "gmxpipe.yaml"), found)
}
