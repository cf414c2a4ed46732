package gmx

import (
	"context"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// DefaultBinary is the GROMACS executable name used when neither the
// config file nor a flag overrides it.
const DefaultBinary = "gmx"

// Command describes a single GROMACS invocation: the argument list after
// the binary name, an optional scripted answer for interactive prompts,
// and the directory to run in.
//
// Several GROMACS subcommands (genion, trjconv) prompt for an index group
// on stdin even in batch use. Stdin carries the newline-terminated answers
// that would otherwise be typed interactively.
type Command struct {
	// Args is the argument list passed to the gmx binary, starting with
	// the subcommand (e.g., "editconf", "-f", "conf.gro", ...).
	Args []string

	// Stdin is scripted input fed to the process, e.g. "SOL\n" for
	// genion's solvent group prompt. Empty means no input is provided.
	Stdin string

	// Dir is the working directory for the invocation. Empty means the
	// current process working directory.
	Dir string
}

// Runner executes GROMACS commands. The two implementations are
// LocalRunner (native gmx binary) and docker.ContainerRunner (gmx inside
// an official GROMACS image).
//
// Run blocks until the external process exits. It returns the combined
// stdout+stderr output on success, and on non-zero exit a model.CLIError
// (ExitGmxFailed) whose message carries the command words and the full
// captured output. There is no retry and no timeout beyond ctx.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)

	// Describe returns the command line Run would execute, for logging
	// and for the per-stage audit trail in results.
	Describe(cmd Command) string
}

// LocalRunner executes the gmx binary installed on the host.
type LocalRunner struct {
	// Binary is the gmx executable name or path. Defaults to "gmx"
	// when constructed via NewLocalRunner with an empty string.
	Binary string
}

// NewLocalRunner creates a LocalRunner for the given executable.
// An empty binary selects DefaultBinary.
func NewLocalRunner(binary string) *LocalRunner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &LocalRunner{Binary: binary}
}

// Run executes the gmx binary with the given arguments.
//
// Stderr is merged into stdout because GROMACS writes most of its
// diagnostics (including the values this tool scrapes) to stderr, and
// the original workflow treats the two as a single log stream anyway.
func (r *LocalRunner) Run(ctx context.Context, cmd Command) (string, error) {
	// #nosec G204 — args are constructed internally, not from user input
	c := exec.CommandContext(ctx, r.Binary, cmd.Args...)
	c.Dir = cmd.Dir
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	// CombinedOutput merges stdout and stderr into a single byte slice,
	// preserving the interleaving GROMACS produces on a terminal.
	output, err := c.CombinedOutput()
	if err != nil {
		return "", wrapRunError(r.Describe(cmd), string(output), err)
	}
	return string(output), nil
}

// Describe returns the command line Run would execute.
func (r *LocalRunner) Describe(cmd Command) string {
	return model.FormatCommand(append([]string{r.Binary}, cmd.Args...))
}

// wrapRunError builds the single error kind this package produces:
// an external command failure carrying the command words, the exit
// status and the full captured output. Shared with the container runner.
func wrapRunError(cmdLine, output string, err error) error {
	message := cmdLine + " failed"
	if trimmed := strings.TrimSpace(output); trimmed != "" {
		message = message + ":\n" + trimmed
	}
	return model.WrapCLIError(model.ExitGmxFailed, message, err)
}
