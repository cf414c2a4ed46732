// Package model defines the domain types and value objects for the
// gmxpipe CLI.
//
// This package contains pure data structures with no external dependencies.
// Pipeline results (PrepResult, TrajResult, StageResult) are transient,
// assembled while a run executes and printed once at the end — the only
// persistent artifacts are the files GROMACS itself writes plus the run log.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
