package config

import (
	"fmt"

	"github.com/mmr-tortoise/gmxpipe/internal/gmx"
	"github.com/mmr-tortoise/gmxpipe/internal/ions"
	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// boxTypes are the shapes editconf accepts for -bt.
var boxTypes = map[string]bool{
	"cubic":        true,
	"triclinic":    true,
	"dodecahedron": true,
	"octahedron":   true,
}

// Config holds the tunable pipeline parameters. The zero value is not
// usable; construct with Default() and overlay file/flag values on top.
type Config struct {
	// Gmx is the GROMACS executable name or path.
	Gmx string `yaml:"gmx" json:"gmx"`

	// Container is a Docker image (e.g., "gromacs/gromacs") to run gmx
	// in instead of a native install. Empty selects the native binary.
	Container string `yaml:"container" json:"container"`

	// BoxType is the simulation cell shape passed to editconf -bt.
	BoxType string `yaml:"boxType" json:"boxType"`

	// Clearance is the minimum solute-box distance in nm (editconf -d).
	Clearance float64 `yaml:"clearance" json:"clearance"`

	// SaltConcentration is the target NaCl concentration in mol/L.
	SaltConcentration float64 `yaml:"saltConcentration" json:"saltConcentration"`

	// PositiveIon and NegativeIon are the ion names passed to genion
	// (-pname / -nname).
	PositiveIon string `yaml:"positiveIon" json:"positiveIon"`
	NegativeIon string `yaml:"negativeIon" json:"negativeIon"`

	// SolventGroup is the index group genion replaces with ions.
	SolventGroup string `yaml:"solventGroup" json:"solventGroup"`

	// MaxWarnIons and MaxWarnEquil are the -maxwarn budgets for the
	// preprocessing runs. NPT restarts from NVT state, which trips an
	// extra grompp warning, hence the larger equilibration budget.
	MaxWarnIons  int `yaml:"maxWarnIons" json:"maxWarnIons"`
	MaxWarnEquil int `yaml:"maxWarnEquil" json:"maxWarnEquil"`
}

// Default returns the configuration the pipelines use when no file and
// no flags override anything. The values are the ones the workflow was
// originally hardwired to.
func Default() Config {
	return Config{
		Gmx:               gmx.DefaultBinary,
		BoxType:           "cubic",
		Clearance:         1.0,
		SaltConcentration: ions.DefaultConcentration,
		PositiveIon:       "NA",
		NegativeIon:       "CL",
		SolventGroup:      "SOL",
		MaxWarnIons:       1,
		MaxWarnEquil:      2,
	}
}

// Validate checks field values. It is called after file and flag
// overlays, so it sees the effective configuration.
func (c *Config) Validate() error {
	if c.Gmx == "" {
		return model.NewCLIError(model.ExitConfigError, "gmx binary must not be empty")
	}
	if !boxTypes[c.BoxType] {
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid box type %q (valid: cubic, triclinic, dodecahedron, octahedron)", c.BoxType))
	}
	if c.Clearance <= 0 {
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("clearance must be positive, got %g", c.Clearance))
	}
	if c.SaltConcentration < 0 {
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("salt concentration must not be negative, got %g", c.SaltConcentration))
	}
	if c.PositiveIon == "" || c.NegativeIon == "" {
		return model.NewCLIError(model.ExitConfigError, "ion names must not be empty")
	}
	if c.SolventGroup == "" {
		return model.NewCLIError(model.ExitConfigError, "solvent group must not be empty")
	}
	if c.MaxWarnIons < 0 || c.MaxWarnEquil < 0 {
		return model.NewCLIError(model.ExitConfigError, "maxwarn budgets must not be negative")
	}
	return nil
}
