// Package prep implements the simulation preparation pipeline.
//
// The pipeline stages a set of input files into a working directory tree
// and then issues six sequential GROMACS invocations: box creation,
// solvation, ion addition (grompp + genion), energy minimization
// (grompp + mdrun), NVT equilibration, and NPT equilibration. Between
// the box and ion stages it scrapes the box volume and the residual
// system charge out of the tool output to size the ion counts.
//
// Control flow is strictly sequential. The first failing stage aborts
// the run; the remaining stages are reported as skipped.
package prep

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mmr-tortoise/gmxpipe/internal/config"
	"github.com/mmr-tortoise/gmxpipe/internal/gmx"
	"github.com/mmr-tortoise/gmxpipe/internal/ions"
	"github.com/mmr-tortoise/gmxpipe/internal/logger"
	"github.com/mmr-tortoise/gmxpipe/internal/mdp"
	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// stageNames lists the pipeline stages in execution order, used to mark
// the not-yet-run stages as skipped when an earlier one fails.
var stageNames = []string{"box", "solvate", "ions", "em", "nvt", "npt"}

// Pipeline runs the preparation workflow. Construct with New and call
// Run once; a Pipeline is not reusable across runs.
type Pipeline struct {
	// Runner executes the gmx commands (native or containerized).
	Runner gmx.Runner

	// Cfg holds the effective pipeline parameters.
	Cfg config.Config

	// WorkDir is the workspace root. Every command runs with this as
	// its working directory and all paths are relative to it.
	WorkDir string

	// InputDir is the directory holding the user's .gro and .top files.
	InputDir string

	// MDPDir is an optional directory of user-supplied parameter files,
	// staged into the workspace mdp/ directory before the first grompp
	// runs. Empty selects the embedded defaults.
	MDPDir string

	// Verbose, when non-nil, receives progress messages for mirroring
	// to the terminal. The log file gets everything regardless.
	Verbose func(format string, args ...interface{})
}

// Run executes the full preparation pipeline and returns its result.
// On failure the returned result is still populated up to and including
// the failed stage, so callers can report partial progress.
func (p *Pipeline) Run(ctx context.Context) (*model.PrepResult, error) {
	start := time.Now()

	result := &model.PrepResult{RunID: uuid.NewString()}
	logger.L().Info("preparation run starting", "runId", result.RunID, "workDir", p.WorkDir)

	workDir, err := filepath.Abs(p.WorkDir)
	if err != nil {
		return result, model.WrapCLIError(model.ExitGeneralError, "failed to resolve workspace path", err)
	}
	result.WorkDir = workDir

	// Probe the GROMACS install before creating anything.
	if err := gmx.CheckInstall(ctx, p.Runner); err != nil {
		return result, err
	}

	inputs, err := SetupWorkspace(workDir, p.InputDir)
	if err != nil {
		return result, err
	}
	p.verbose("Staged inputs: %s, %s", inputs.Structure, inputs.Topology)

	mdpDir, err := p.resolveMDPDir(workDir)
	if err != nil {
		return result, err
	}

	err = p.runStages(ctx, result, inputs, mdpDir)
	result.Elapsed = time.Since(start)

	if err != nil {
		logger.L().Error("preparation run failed", "runId", result.RunID, "error", err)
		return result, err
	}
	logger.L().Info("preparation run completed", "runId", result.RunID, "elapsed", result.Elapsed)
	return result, nil
}

// resolveMDPDir populates the workspace mdp/ directory the grompp
// stages read their parameter files from, either by staging the user's
// --mdp-dir (verified complete) or by materializing the embedded
// defaults. The returned path is relative to the workspace root, like
// every other path the pipeline hands to gmx — the commands run with
// the workspace as working directory, and in container mode only the
// workspace is mounted.
func (p *Pipeline) resolveMDPDir(workDir string) (string, error) {
	stageDir := filepath.Join(workDir, "mdp")

	if p.MDPDir != "" {
		if err := mdp.Verify(p.MDPDir); err != nil {
			return "", model.WrapCLIError(model.ExitInputError, "invalid mdp directory", err)
		}
		if err := os.MkdirAll(stageDir, 0o755); err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to create workspace mdp directory", err)
		}
		for _, name := range mdp.Required {
			if err := copyFile(filepath.Join(p.MDPDir, name), filepath.Join(stageDir, name)); err != nil {
				return "", model.WrapCLIError(model.ExitInputError, "failed to stage mdp file "+name, err)
			}
		}
		return "mdp", nil
	}

	if _, err := mdp.MaterializeDefaults(stageDir); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to write default mdp files", err)
	}
	return "mdp", nil
}

// runStages executes the six stages in order, appending a StageResult
// for each to the run result.
func (p *Pipeline) runStages(ctx context.Context, result *model.PrepResult, in Inputs, mdpDir string) error {
	cfg := p.Cfg

	// Stage 1: simulation box creation. The box volume reported by
	// editconf sizes the ion counts later.
	p.verbose("1. Simulation box creation")
	boxOut, err := p.runStage(ctx, result, "box", gmx.Command{
		Dir: result.WorkDir,
		Args: []string{
			"editconf",
			"-f", in.Structure,
			"-o", filepath.Join("box", "box.gro"),
			"-bt", cfg.BoxType,
			"-d", formatFloat(cfg.Clearance),
			"-c",
		},
	})
	if err != nil {
		return p.abort(result, err)
	}
	volume, err := gmx.ParseBoxVolume(boxOut[0])
	if err != nil {
		p.failLast(result)
		return p.abort(result, err)
	}
	result.BoxVolume = volume
	p.verbose("Box volume: %g nm^3", volume)
	logger.L().Info("box volume parsed", "volume", volume)

	// Stage 2: solvation with the default solvent configuration (-cs).
	p.verbose("2. Solvation")
	if _, err := p.runStage(ctx, result, "solvate", gmx.Command{
		Dir: result.WorkDir,
		Args: []string{
			"solvate",
			"-cp", filepath.Join("box", "box.gro"),
			"-o", filepath.Join("solv_ions", "solv.gro"),
			"-p", in.Topology,
			"-cs",
		},
	}); err != nil {
		return p.abort(result, err)
	}

	// Stage 3: neutralization. grompp assembles the run input and, for
	// charged systems, reports the residual charge we have to balance.
	p.verbose("3. Neutralization with ions")
	gromppOut, err := p.runStage(ctx, result, "ions", gmx.Command{
		Dir: result.WorkDir,
		Args: []string{
			"grompp",
			"-f", filepath.Join(mdpDir, "ions.mdp"),
			"-c", filepath.Join("solv_ions", "solv.gro"),
			"-p", in.Topology,
			"-o", filepath.Join("solv_ions", "ions.tpr"),
			"-maxwarn", strconv.Itoa(cfg.MaxWarnIons),
		},
	})
	if err != nil {
		return p.abort(result, err)
	}
	charge, err := gmx.ParseNetCharge(gromppOut[0])
	if err != nil {
		p.failLast(result)
		return p.abort(result, err)
	}
	result.NetCharge = charge
	result.Ions = ions.Counts(volume, charge, cfg.SaltConcentration)
	p.verbose("Net charge: %g, adding %s", charge, result.Ions)
	logger.L().Info("ion counts computed",
		"charge", charge, "sodium", result.Ions.Sodium, "chloride", result.Ions.Chloride)

	// genion prompts for the group to replace with ions; the solvent
	// group answer is scripted on stdin.
	if err := p.appendToStage(ctx, result, gmx.Command{
		Dir:   result.WorkDir,
		Stdin: cfg.SolventGroup + "\n",
		Args: []string{
			"genion",
			"-s", filepath.Join("solv_ions", "ions.tpr"),
			"-o", filepath.Join("solv_ions", "ions.gro"),
			"-p", in.Topology,
			"-pname", cfg.PositiveIon,
			"-nname", cfg.NegativeIon,
			"-np", strconv.Itoa(result.Ions.Sodium),
			"-nn", strconv.Itoa(result.Ions.Chloride),
		},
	}); err != nil {
		return p.abort(result, err)
	}

	// Stage 4: energy minimization.
	p.verbose("4. Energy minimization")
	if _, err := p.runStage(ctx, result, "em",
		gromppCommand(result.WorkDir, filepath.Join(mdpDir, "em.mdp"),
			filepath.Join("solv_ions", "ions.gro"), in.Topology,
			filepath.Join("em", "em.tpr"), cfg.MaxWarnIons),
		mdrunCommand(result.WorkDir, "em/em"),
	); err != nil {
		return p.abort(result, err)
	}

	// Stage 5: NVT equilibration from the minimized structure.
	p.verbose("5. NVT equilibration")
	if _, err := p.runStage(ctx, result, "nvt",
		gromppCommand(result.WorkDir, filepath.Join(mdpDir, "nvt_equil.mdp"),
			filepath.Join("em", "em.gro"), in.Topology,
			filepath.Join("equil", "NVT", "equil.tpr"), cfg.MaxWarnIons),
		mdrunCommand(result.WorkDir, "equil/NVT/equil"),
	); err != nil {
		return p.abort(result, err)
	}

	// Stage 6: NPT equilibration continuing from the NVT state. The
	// restart trips an extra grompp warning, hence the larger budget.
	p.verbose("6. NPT equilibration")
	if _, err := p.runStage(ctx, result, "npt",
		gromppCommand(result.WorkDir, filepath.Join(mdpDir, "npt_equil.mdp"),
			filepath.Join("equil", "NVT", "equil.gro"), in.Topology,
			filepath.Join("equil", "NPT", "equil.tpr"), cfg.MaxWarnEquil),
		mdrunCommand(result.WorkDir, "equil/NPT/equil"),
	); err != nil {
		return p.abort(result, err)
	}

	return nil
}

// gromppCommand builds the preprocessing invocation shared by the em,
// nvt and npt stages.
func gromppCommand(workDir, mdpFile, structure, topology, tpr string, maxWarn int) gmx.Command {
	return gmx.Command{
		Dir: workDir,
		Args: []string{
			"grompp",
			"-f", mdpFile,
			"-c", structure,
			"-p", topology,
			"-o", tpr,
			"-maxwarn", strconv.Itoa(maxWarn),
		},
	}
}

// mdrunCommand builds an mdrun invocation using -deffnm, which derives
// all output file names from the given prefix.
func mdrunCommand(workDir, deffnm string) gmx.Command {
	return gmx.Command{
		Dir:  workDir,
		Args: []string{"mdrun", "-deffnm", deffnm},
	}
}

// runStage executes the given commands as one named stage, recording a
// StageResult on the run result. It returns the captured output of each
// command in order.
func (p *Pipeline) runStage(ctx context.Context, result *model.PrepResult, name string, cmds ...gmx.Command) ([]string, error) {
	start := time.Now()
	sr := model.StageResult{Name: name, Status: model.StatusOK}

	var outputs []string
	for _, cmd := range cmds {
		line := p.Runner.Describe(cmd)
		sr.Commands = append(sr.Commands, line)
		p.verbose("Running command: %s", line)
		logger.L().Info("running command", "stage", name, "cmd", line)

		out, err := p.Runner.Run(ctx, cmd)
		if err != nil {
			sr.Status = model.StatusFailed
			sr.Elapsed = time.Since(start)
			result.Stages = append(result.Stages, sr)
			return outputs, err
		}
		logger.L().Debug("command output", "stage", name, "output", out)
		outputs = append(outputs, out)
	}

	sr.Elapsed = time.Since(start)
	result.Stages = append(result.Stages, sr)
	return outputs, nil
}

// appendToStage runs one more command under the most recently recorded
// stage. Used for the genion call, which belongs to the ions stage but
// can only be built after the grompp output has been parsed.
func (p *Pipeline) appendToStage(ctx context.Context, result *model.PrepResult, cmd gmx.Command) error {
	sr := &result.Stages[len(result.Stages)-1]
	start := time.Now()

	line := p.Runner.Describe(cmd)
	sr.Commands = append(sr.Commands, line)
	p.verbose("Running command: %s", line)
	logger.L().Info("running command", "stage", sr.Name, "cmd", line)

	out, err := p.Runner.Run(ctx, cmd)
	if err != nil {
		sr.Status = model.StatusFailed
		sr.Elapsed += time.Since(start)
		return err
	}
	logger.L().Debug("command output", "stage", sr.Name, "output", out)
	sr.Elapsed += time.Since(start)
	return nil
}

// failLast marks the most recently recorded stage as failed. Used when
// the stage's command succeeded but its output could not be parsed.
func (p *Pipeline) failLast(result *model.PrepResult) {
	if len(result.Stages) > 0 {
		result.Stages[len(result.Stages)-1].Status = model.StatusFailed
	}
}

// abort appends skipped entries for the stages that never ran and
// passes the error through.
func (p *Pipeline) abort(result *model.PrepResult, err error) error {
	ran := make(map[string]bool, len(result.Stages))
	for _, sr := range result.Stages {
		ran[sr.Name] = true
	}
	for _, name := range stageNames {
		if !ran[name] {
			result.Stages = append(result.Stages, model.StageResult{
				Name:   name,
				Status: model.StatusSkipped,
			})
		}
	}
	return err
}

// verbose forwards a progress message to the configured sink, if any.
func (p *Pipeline) verbose(format string, args ...interface{}) {
	if p.Verbose != nil {
		p.Verbose(format, args...)
	}
}

// formatFloat renders a float flag value the way the gmx CLI expects,
// without trailing zeros (1.0 → "1", 0.15 → "0.15").
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
