// Package traj implements the trajectory post-processing pipeline.
//
// The pipeline issues two sequential gmx trjconv invocations over a
// finished trajectory: the first recenters the system and removes
// periodic jumps (-pbc nojump), the second rewraps whole molecules into
// a compact unit cell (-pbc whole -ur compact). Both passes answer
// trjconv's centering and output group prompts with scripted stdin.
package traj

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmr-tortoise/gmxpipe/internal/gmx"
	"github.com/mmr-tortoise/gmxpipe/internal/logger"
	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// DefaultGroups are the four index groups answered to the two trjconv
// passes when the user does not override them: centering and output
// selection for pass one, then for pass two.
var DefaultGroups = [4]string{"Backbone", "System", "Backbone", "System"}

// DefaultTimeStep is the frame spacing in ps passed via -dt when the
// user does not override it. Zero disables subsampling entirely.
const DefaultTimeStep = 200.0

// Options holds the trajectory pipeline inputs. Only Input is
// mandatory; the rest defaults from the input file name.
type Options struct {
	// Input is the trajectory file to process.
	Input string

	// TPR is the run input file matching the trajectory. Empty defaults
	// to the trajectory prefix with a .tpr extension.
	TPR string

	// Output is the processed trajectory. Empty defaults to the
	// trajectory prefix with a _center.xtc suffix.
	Output string

	// Groups are the four index group answers. Empty entries fall back
	// to DefaultGroups.
	Groups [4]string

	// TimeStep is the -dt value in ps. Zero omits the flag.
	TimeStep float64
}

// withDefaults returns a copy of o with every empty field filled in
// from the input file name.
func (o Options) withDefaults() Options {
	prefix := o.Input
	if idx := strings.LastIndex(prefix, "."); idx >= 0 {
		prefix = prefix[:idx]
	}

	if o.TPR == "" {
		o.TPR = prefix + ".tpr"
	}
	if o.Output == "" {
		o.Output = prefix + "_center.xtc"
	}
	for i, g := range o.Groups {
		if g == "" {
			o.Groups[i] = DefaultGroups[i]
		}
	}
	return o
}

// intermediate returns the path of the de-jumped trajectory produced by
// pass one and consumed by pass two.
func (o Options) intermediate() string {
	prefix := o.Input
	if idx := strings.LastIndex(prefix, "."); idx >= 0 {
		prefix = prefix[:idx]
	}
	return prefix + "_nojump.xtc"
}

// Pipeline runs the trajectory post-processing workflow.
type Pipeline struct {
	// Runner executes the gmx commands (native or containerized).
	Runner gmx.Runner

	// Opts are the pipeline inputs; defaults are applied inside Run.
	Opts Options

	// Verbose, when non-nil, receives progress messages for mirroring
	// to the terminal.
	Verbose func(format string, args ...interface{})
}

// Run executes both conversion passes and returns the result. As with
// the preparation pipeline, a failing pass aborts the run and the other
// pass is reported as skipped.
func (p *Pipeline) Run(ctx context.Context) (*model.TrajResult, error) {
	start := time.Now()
	opts := p.Opts.withDefaults()

	result := &model.TrajResult{
		RunID:  uuid.NewString(),
		Input:  opts.Input,
		Output: opts.Output,
	}
	logger.L().Info("trajectory run starting",
		"runId", result.RunID, "input", opts.Input, "output", opts.Output)

	if err := gmx.CheckInstall(ctx, p.Runner); err != nil {
		return result, err
	}

	// Pass 1: recenter and remove periodic jumps.
	p.verbose("1. Recenter and remove jumps")
	if err := p.runPass(ctx, result, "nojump", gmx.Command{
		Stdin: opts.Groups[0] + "\n" + opts.Groups[1] + "\n",
		Args: withTimeStep(opts.TimeStep, []string{
			"trjconv",
			"-s", opts.TPR,
			"-f", opts.Input,
			"-o", opts.intermediate(),
			"-center",
			"-pbc", "nojump",
		}),
	}); err != nil {
		result.Stages = append(result.Stages, model.StageResult{Name: "rewrap", Status: model.StatusSkipped})
		result.Elapsed = time.Since(start)
		return result, err
	}

	// Pass 2: rewrap whole molecules into a compact cell.
	p.verbose("2. Rewrap into compact cell")
	if err := p.runPass(ctx, result, "rewrap", gmx.Command{
		Stdin: opts.Groups[2] + "\n" + opts.Groups[3] + "\n",
		Args: withTimeStep(opts.TimeStep, []string{
			"trjconv",
			"-s", opts.TPR,
			"-f", opts.intermediate(),
			"-o", opts.Output,
			"-center",
			"-pbc", "whole",
			"-ur", "compact",
		}),
	}); err != nil {
		result.Elapsed = time.Since(start)
		return result, err
	}

	result.Elapsed = time.Since(start)
	logger.L().Info("trajectory run completed", "runId", result.RunID, "elapsed", result.Elapsed)
	return result, nil
}

// runPass executes one trjconv invocation as a named stage.
func (p *Pipeline) runPass(ctx context.Context, result *model.TrajResult, name string, cmd gmx.Command) error {
	start := time.Now()
	line := p.Runner.Describe(cmd)
	sr := model.StageResult{Name: name, Commands: []string{line}, Status: model.StatusOK}

	p.verbose("Running command: %s", line)
	logger.L().Info("running command", "stage", name, "cmd", line)

	out, err := p.Runner.Run(ctx, cmd)
	sr.Elapsed = time.Since(start)
	if err != nil {
		sr.Status = model.StatusFailed
		result.Stages = append(result.Stages, sr)
		return err
	}
	logger.L().Debug("command output", "stage", name, "output", out)
	result.Stages = append(result.Stages, sr)
	return nil
}

// withTimeStep appends -dt when subsampling is enabled.
func withTimeStep(dt float64, args []string) []string {
	if dt == 0 {
		return args
	}
	return append(args, "-dt", strconv.FormatFloat(dt, 'g', -1, 64))
}

// verbose forwards a progress message to the configured sink, if any.
func (p *Pipeline) verbose(format string, args ...interface{}) {
	if p.Verbose != nil {
		p.Verbose(format, args...)
	}
}
