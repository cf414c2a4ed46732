// Package cli — prep.go implements the "gmxpipe prep" command.
//
// The prep command is the primary user-facing operation. It stages the
// input files into a working directory tree and drives the six-stage
// preparation pipeline (box, solvate, ions, em, nvt, npt).
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gmxpipe/internal/config"
	"github.com/mmr-tortoise/gmxpipe/internal/docker"
	"github.com/mmr-tortoise/gmxpipe/internal/gmx"
	"github.com/mmr-tortoise/gmxpipe/internal/logger"
	"github.com/mmr-tortoise/gmxpipe/internal/model"
	"github.com/mmr-tortoise/gmxpipe/internal/prep"
)

// prepFlags holds the flag values for the prep command.
// These are bound to cobra flags in NewPrepCommand.
type prepFlags struct {
	inputDir  string  // -i: directory with the .gro and .top files
	mdpDir    string  // -m: directory with user-supplied .mdp files
	outputDir string  // -o: workspace root for the run
	logFile   string  // --log: run log file
	container string  // --container: GROMACS docker image
	gmxBinary string  // --gmx: gmx executable name/path
	conc      float64 // --conc: target salt concentration (mol/L)
	boxType   string  // --box-type: editconf -bt value
	clearance float64 // --clearance: editconf -d value (nm)
	pname     string  // --pname: positive ion name
	nname     string  // --nname: negative ion name
	solvent   string  // --solvent-group: genion replacement group
}

// NewPrepCommand creates the "prep" cobra command.
func NewPrepCommand() *cobra.Command {
	flags := &prepFlags{}

	cmd := &cobra.Command{
		Use:   "prep",
		Short: "Prepare a production simulation from a structure and topology",
		Long: `Prepare a GROMACS production simulation given the necessary input files.

The input directory must contain exactly one structure (.gro) file and exactly
one topology (.top) file. The command creates the working directory tree
(topology/, box/, solv_ions/, em/, equil/NVT/, equil/NPT/, production/) and runs:

  1. Simulation box creation      (gmx editconf)
  2. Solvation                    (gmx solvate)
  3. Neutralization with ions     (gmx grompp + gmx genion)
  4. Energy minimization          (gmx grompp + gmx mdrun)
  5. NVT equilibration            (gmx grompp + gmx mdrun)
  6. NPT equilibration            (gmx grompp + gmx mdrun)

Ion counts are derived from the box volume and the residual system charge so
the final system is neutral at the target salt concentration.

Examples:
  gmxpipe prep -i gmx_inputs
  gmxpipe prep -i gmx_inputs -m my_mdp_files -o runs/lysozyme
  gmxpipe prep -i gmx_inputs --container gromacs/gromacs
  gmxpipe prep -i gmx_inputs --conc 0.10 --pname K --nname CL`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra
		// passes them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrep(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.inputDir, "input", "i", "", "Directory containing the .gro and .top input files (required)")
	cmd.Flags().StringVarP(&flags.mdpDir, "mdp-dir", "m", "", "Directory with ions.mdp, em.mdp, nvt_equil.mdp, npt_equil.mdp (default: embedded files)")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", ".", "Workspace root for the run")
	cmd.Flags().StringVar(&flags.logFile, "log", "prep_simulation.log", "Log file recording the preparation steps")
	cmd.Flags().StringVar(&flags.container, "container", "", "Run gmx inside this Docker image instead of a native install")
	cmd.Flags().StringVar(&flags.gmxBinary, "gmx", "", "GROMACS executable name or path")
	cmd.Flags().Float64Var(&flags.conc, "conc", 0, "Target salt concentration in mol/L")
	cmd.Flags().StringVar(&flags.boxType, "box-type", "", "Simulation box shape (cubic, triclinic, dodecahedron, octahedron)")
	cmd.Flags().Float64Var(&flags.clearance, "clearance", 0, "Minimum solute-box distance in nm")
	cmd.Flags().StringVar(&flags.pname, "pname", "", "Positive ion name")
	cmd.Flags().StringVar(&flags.nname, "nname", "", "Negative ion name")
	cmd.Flags().StringVar(&flags.solvent, "solvent-group", "", "Index group genion replaces with ions")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// runPrep is the main orchestration function for the prep command.
func runPrep(cmd *cobra.Command, flags *prepFlags) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}

	cleanup, err := logger.Setup(flags.logFile)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to open log file", err)
	}
	defer func() { _ = cleanup() }()
	VerboseLog("Logging to %s", flags.logFile)

	runner, err := selectRunner(ctx, cfg, flags.outputDir)
	if err != nil {
		return err
	}

	pipeline := &prep.Pipeline{
		Runner:   runner,
		Cfg:      cfg,
		WorkDir:  flags.outputDir,
		InputDir: flags.inputDir,
		MDPDir:   flags.mdpDir,
		Verbose:  VerboseLog,
	}

	result, runErr := pipeline.Run(ctx)
	if result != nil && (runErr == nil || len(result.Stages) > 0) {
		printPrepResult(result, runErr == nil)
	}
	return runErr
}

// resolveConfig loads the config file and overlays the prep flags the
// user actually set. cobra's Changed check keeps the file values for
// flags left at their defaults.
func resolveConfig(cmd *cobra.Command, flags *prepFlags) (config.Config, error) {
	cfg, err := config.Load(configPath, ".")
	if err != nil {
		return cfg, err
	}

	fs := cmd.Flags()
	if fs.Changed("gmx") {
		cfg.Gmx = flags.gmxBinary
	}
	if fs.Changed("container") {
		cfg.Container = flags.container
	}
	if fs.Changed("conc") {
		cfg.SaltConcentration = flags.conc
	}
	if fs.Changed("box-type") {
		cfg.BoxType = flags.boxType
	}
	if fs.Changed("clearance") {
		cfg.Clearance = flags.clearance
	}
	if fs.Changed("pname") {
		cfg.PositiveIon = flags.pname
	}
	if fs.Changed("nname") {
		cfg.NegativeIon = flags.nname
	}
	if fs.Changed("solvent-group") {
		cfg.SolventGroup = flags.solvent
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// selectRunner picks the native or containerized runner depending on
// the effective configuration.
func selectRunner(ctx context.Context, cfg config.Config, workDir string) (gmx.Runner, error) {
	if cfg.Container != "" {
		VerboseLog("Running GROMACS in container image %s", cfg.Container)
		return docker.NewContainerRunner(ctx, cfg.Container, workDir)
	}
	return gmx.NewLocalRunner(cfg.Gmx), nil
}

// printPrepResult outputs the prep results in text or JSON format.
func printPrepResult(result *model.PrepResult, success bool) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if success {
		fmt.Printf("Preparation completed successfully (run %s)\n", result.RunID)
	} else {
		fmt.Printf("Preparation failed (run %s)\n", result.RunID)
	}
	fmt.Printf("  Workspace:   %s\n", result.WorkDir)
	fmt.Printf("  Box volume:  %g nm^3\n", result.BoxVolume)
	fmt.Printf("  Net charge:  %g\n", result.NetCharge)
	fmt.Printf("  Ions added:  %s\n", result.Ions)
	fmt.Println()
	fmt.Println("  Stages:")
	for _, sr := range result.Stages {
		fmt.Printf("    %-8s %-7s %s\n", sr.Name, sr.Status, sr.Elapsed.Round(timePrecision))
	}
	fmt.Printf("\n  Elapsed: %s\n", result.Elapsed.Round(timePrecision))
}
