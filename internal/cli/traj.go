// Package cli — traj.go implements the "gmxpipe traj" command.
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gmxpipe/internal/config"
	"github.com/mmr-tortoise/gmxpipe/internal/logger"
	"github.com/mmr-tortoise/gmxpipe/internal/model"
	"github.com/mmr-tortoise/gmxpipe/internal/traj"
)

// timePrecision is the rounding applied to durations in text output.
const timePrecision = time.Millisecond

// trajFlags holds the flag values for the traj command.
type trajFlags struct {
	input     string   // -i: input trajectory
	tpr       string   // -t: matching run input (.tpr) file
	output    string   // -o: processed trajectory
	groups    []string // -g: four index groups for the two passes
	timeStep  float64  // --dt: frame spacing in ps (0 disables)
	logFile   string   // --log: run log file
	container string   // --container: GROMACS docker image
	gmxBinary string   // --gmx: gmx executable name/path
}

// NewTrajCommand creates the "traj" cobra command.
func NewTrajCommand() *cobra.Command {
	flags := &trajFlags{}

	cmd := &cobra.Command{
		Use:   "traj",
		Short: "Recenter and rewrap a finished trajectory",
		Long: `Process a GROMACS trajectory by recentering and rewrapping molecules.

Two gmx trjconv passes run in sequence: the first removes periodic jumps
(-pbc nojump), the second rewraps whole molecules into a compact unit cell
(-pbc whole -ur compact). Each pass answers trjconv's centering and output
group prompts with the index groups given via --groups.

The .tpr file defaults to the trajectory prefix with a .tpr extension, and
the output to the prefix with a _center.xtc suffix.

Examples:
  gmxpipe traj -i production/md.xtc
  gmxpipe traj -i md.xtc -t md.tpr -o md_centered.xtc
  gmxpipe traj -i md.xtc -g Protein,System,Protein,System --dt 100`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraj(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input trajectory file (required)")
	cmd.Flags().StringVarP(&flags.tpr, "tpr", "t", "", "Run input (.tpr) file matching the trajectory (default: <prefix>.tpr)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output trajectory file (default: <prefix>_center.xtc)")
	cmd.Flags().StringSliceVarP(&flags.groups, "groups", "g", nil, "Four index groups: centering and output for each pass (default: Backbone,System,Backbone,System)")
	cmd.Flags().Float64Var(&flags.timeStep, "dt", traj.DefaultTimeStep, "Time between output frames in ps (0 keeps every frame)")
	cmd.Flags().StringVar(&flags.logFile, "log", "process_traj.log", "Log file recording the processing steps")
	cmd.Flags().StringVar(&flags.container, "container", "", "Run gmx inside this Docker image instead of a native install (only the current directory is mounted, so all paths must lie under it)")
	cmd.Flags().StringVar(&flags.gmxBinary, "gmx", "", "GROMACS executable name or path")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// runTraj is the orchestration function for the traj command.
func runTraj(cmd *cobra.Command, flags *trajFlags) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath, ".")
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("gmx") {
		cfg.Gmx = flags.gmxBinary
	}
	if fs.Changed("container") {
		cfg.Container = flags.container
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	groups, err := parseGroups(flags.groups)
	if err != nil {
		return err
	}

	cleanup, err := logger.Setup(flags.logFile)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to open log file", err)
	}
	defer func() { _ = cleanup() }()
	VerboseLog("Logging to %s", flags.logFile)

	// Container runs mount the current directory, so the trajectory,
	// tpr, and output paths must be relative to it.
	runner, err := selectRunner(ctx, cfg, ".")
	if err != nil {
		return err
	}

	pipeline := &traj.Pipeline{
		Runner: runner,
		Opts: traj.Options{
			Input:    flags.input,
			TPR:      flags.tpr,
			Output:   flags.output,
			Groups:   groups,
			TimeStep: flags.timeStep,
		},
		Verbose: VerboseLog,
	}

	result, runErr := pipeline.Run(ctx)
	if result != nil && (runErr == nil || len(result.Stages) > 0) {
		printTrajResult(result, runErr == nil)
	}
	return runErr
}

// parseGroups validates the --groups flag: either absent (defaults
// apply) or exactly four names.
func parseGroups(groups []string) ([4]string, error) {
	var out [4]string
	if len(groups) == 0 {
		return out, nil
	}
	if len(groups) != 4 {
		return out, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("--groups needs exactly 4 index groups, got %d", len(groups)))
	}
	copy(out[:], groups)
	return out, nil
}

// printTrajResult outputs the traj results in text or JSON format.
func printTrajResult(result *model.TrajResult, success bool) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if success {
		fmt.Printf("Trajectory processing completed successfully (run %s)\n", result.RunID)
	} else {
		fmt.Printf("Trajectory processing failed (run %s)\n", result.RunID)
	}
	fmt.Printf("  Input:   %s\n", result.Input)
	fmt.Printf("  Output:  %s\n", result.Output)
	fmt.Println()
	fmt.Println("  Commands executed:")
	for _, sr := range result.Stages {
		for _, c := range sr.Commands {
			fmt.Printf("    %s\n", c)
		}
	}
	fmt.Printf("\n  Elapsed: %s\n", result.Elapsed.Round(timePrecision))
}
