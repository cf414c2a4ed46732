// Package model defines the domain types for the gmxpipe CLI.
//
// All entities in this package represent the data passed between the
// pipeline packages (prep, traj) and the CLI layer. They carry no
// behavior beyond validation and formatting.
package model

import (
	"fmt"
	"strings"
	"time"
)

// StageStatus represents the outcome of a single pipeline stage.
// A pipeline is strictly sequential, so at most one stage can be
// StatusFailed and every stage after it remains StatusSkipped.
type StageStatus string

const (
	// StatusOK indicates the stage's external command(s) exited zero.
	StatusOK StageStatus = "ok"

	// StatusFailed indicates a command in the stage exited non-zero
	// (or its output could not be parsed). The pipeline stops here.
	StatusFailed StageStatus = "failed"

	// StatusSkipped indicates the stage never ran because an earlier
	// stage failed.
	StatusSkipped StageStatus = "skipped"
)

// String returns the string representation of StageStatus.
// This method satisfies the fmt.Stringer interface for CLI output.
func (s StageStatus) String() string {
	return string(s)
}

// IsValid checks whether the StageStatus value is one of the
// predefined valid states.
func (s StageStatus) IsValid() bool {
	switch s {
	case StatusOK, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// StageResult records a single executed pipeline stage: which commands
// ran, how long the stage took, and how it ended. The command lines are
// the exact words passed to the external binary — they double as the
// run's audit trail in both text and JSON output.
type StageResult struct {
	// Name is the short stage identifier (e.g., "box", "solvate", "nvt").
	Name string `json:"name"`

	// Commands holds the full command line of every external invocation
	// the stage performed, in execution order.
	Commands []string `json:"commands,omitempty"`

	// Status is the stage outcome.
	Status StageStatus `json:"status"`

	// Elapsed is the wall-clock duration of the stage.
	Elapsed time.Duration `json:"elapsed"`
}

// IonCounts holds the number of sodium and chloride ions to insert
// during the neutralization stage.
//
// The counts derive from the simulation box volume V (nm^3), the target
// salt concentration c (mol/L) and the residual system charge q:
//
//	n = ceil(V * 1e-27 * 1000 * c * N_A)
//	q < 0 → chloride = n, sodium = n + |q|
//	q ≥ 0 → sodium = n, chloride = n + |q|
//
// The side balancing the charge always carries the extra |q| ions, so the
// resulting system is neutral at (approximately) the requested concentration.
type IonCounts struct {
	// Sodium is the number of positive ions (-np to genion).
	Sodium int `json:"sodium"`

	// Chloride is the number of negative ions (-nn to genion).
	Chloride int `json:"chloride"`
}

// String returns a human-readable representation, e.g. "42 NA / 38 CL".
func (c IonCounts) String() string {
	return fmt.Sprintf("%d NA / %d CL", c.Sodium, c.Chloride)
}

// PrepResult is the aggregate outcome of the preparation pipeline.
// It is assembled stage by stage and printed once at the end of the run
// (text or JSON depending on the --json flag).
type PrepResult struct {
	// RunID uniquely identifies this pipeline run. It appears in the
	// log file and the JSON output so separate runs over the same
	// workspace can be told apart.
	RunID string `json:"runId"`

	// WorkDir is the absolute path of the workspace root in which the
	// directory tree (topology/, box/, solv_ions/, ...) was created.
	WorkDir string `json:"workDir"`

	// BoxVolume is the simulation cell volume in nm^3, scraped from
	// the box-creation output.
	BoxVolume float64 `json:"boxVolume"`

	// NetCharge is the residual system charge scraped from the ion
	// preprocessing output. Zero when the system was already neutral.
	NetCharge float64 `json:"netCharge"`

	// Ions are the counts passed to the ion insertion step.
	Ions IonCounts `json:"ions"`

	// Stages lists every pipeline stage in execution order.
	Stages []StageResult `json:"stages"`

	// Elapsed is the total wall-clock duration of the pipeline.
	Elapsed time.Duration `json:"elapsed"`
}

// TrajResult is the aggregate outcome of the trajectory processing
// pipeline.
type TrajResult struct {
	// RunID uniquely identifies this pipeline run.
	RunID string `json:"runId"`

	// Input is the trajectory file that was processed.
	Input string `json:"input"`

	// Output is the recentered/rewrapped trajectory that was produced.
	Output string `json:"output"`

	// Stages lists the two conversion passes in execution order.
	Stages []StageResult `json:"stages"`

	// Elapsed is the total wall-clock duration of the pipeline.
	Elapsed time.Duration `json:"elapsed"`
}

// ExitCode defines standard CLI exit codes. These codes allow scripts
// and schedulers (simulation prep commonly runs inside batch jobs) to
// programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the config file or flag values were invalid.
	ExitConfigError ExitCode = 2

	// ExitGmxNotFound indicates the GROMACS binary could not be executed
	// (not installed, not on PATH, or the --version probe failed).
	ExitGmxNotFound ExitCode = 3

	// ExitGmxFailed indicates a GROMACS invocation exited non-zero.
	ExitGmxFailed ExitCode = 4

	// ExitParseError indicates an expected value (box volume, net charge)
	// could not be extracted from GROMACS output.
	ExitParseError ExitCode = 5

	// ExitInputError indicates the input files or directories were missing
	// or malformed (e.g., not exactly one .gro/.top file).
	ExitInputError ExitCode = 6

	// ExitDockerNotRunning indicates container mode was requested but the
	// Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// FormatCommand renders an argument vector the way it is logged and
// reported: binary and arguments joined by single spaces. GROMACS flag
// values never contain spaces in this tool, so no quoting is needed.
func FormatCommand(words []string) string {
	return strings.Join(words, " ")
}
