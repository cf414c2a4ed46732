// Package mdp ships the default GROMACS parameter (.mdp) files used by
// the preparation pipeline when the user does not supply their own.
//
// The four files cover the stages that need a parameter file: ion
// placement (ions.mdp), energy minimization (em.mdp), and the two
// equilibration stages (nvt_equil.mdp, npt_equil.mdp). They are embedded
// in the binary so a bare `gmxpipe prep -i <dir>` works anywhere.
package mdp

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed ions.mdp em.mdp nvt_equil.mdp npt_equil.mdp
var defaults embed.FS

// Required lists the parameter files the preparation pipeline expects,
// whether they come from the embedded defaults or a user directory.
var Required = []string{"ions.mdp", "em.mdp", "nvt_equil.mdp", "npt_equil.mdp"}

// MaterializeDefaults writes the embedded parameter files into dir
// (created if needed) and returns dir, which can then be used exactly
// like a user-supplied --mdp-dir.
func MaterializeDefaults(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create mdp directory: %w", err)
	}

	for _, name := range Required {
		data, err := defaults.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read embedded %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}
	return dir, nil
}

// Verify checks that a user-supplied parameter directory contains every
// required file, so a typo in --mdp-dir fails before the pipeline starts
// instead of at the stage that first needs the missing file.
func Verify(dir string) error {
	for _, name := range Required {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("mdp directory %s is missing %s: %w", dir, name, err)
		}
	}
	return nil
}
