package gmx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// writeFakeGmx creates a shell script standing in for the gmx binary
// and returns its path. The script echoes its arguments and stdin, so
// tests can verify both the exit-code contract and the output capture
// without a real GROMACS install.
func writeFakeGmx(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake gmx script requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "gmx")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err, "failed to write fake gmx script")
	return path
}

func TestLocalRunnerSuccess(t *testing.T) {
	bin := writeFakeGmx(t, `echo "args: $@"`)
	r := NewLocalRunner(bin)

	out, err := r.Run(context.Background(), Command{Args: []string{"editconf", "-f", "conf.gro"}})
	require.NoError(t, err)
	assert.Contains(t, out, "args: editconf -f conf.gro")
}

// Stderr must be merged into the returned output, because GROMACS
// writes its diagnostics (and the values we scrape) to stderr.
func TestLocalRunnerMergesStderr(t *testing.T) {
	bin := writeFakeGmx(t, `echo "to stdout"; echo "to stderr" >&2`)
	r := NewLocalRunner(bin)

	out, err := r.Run(context.Background(), Command{Args: []string{"solvate"}})
	require.NoError(t, err)
	assert.Contains(t, out, "to stdout")
	assert.Contains(t, out, "to stderr")
}

func TestLocalRunnerScriptedStdin(t *testing.T) {
	bin := writeFakeGmx(t, `read answer; echo "group: $answer"`)
	r := NewLocalRunner(bin)

	out, err := r.Run(context.Background(), Command{Args: []string{"genion"}, Stdin: "SOL\n"})
	require.NoError(t, err)
	assert.Contains(t, out, "group: SOL")
}

func TestLocalRunnerNonZeroExit(t *testing.T) {
	bin := writeFakeGmx(t, `echo "Fatal error: something broke"; exit 1`)
	r := NewLocalRunner(bin)

	_, err := r.Run(context.Background(), Command{Args: []string{"grompp"}})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr), "error should be a CLIError")
	assert.Equal(t, model.ExitGmxFailed, cliErr.Code)

	// The error message carries the command words and the captured
	// output, which is all the user has to diagnose a tool failure.
	assert.Contains(t, cliErr.Message, "grompp")
	assert.Contains(t, cliErr.Message, "Fatal error: something broke")
}

func TestLocalRunnerWorkingDirectory(t *testing.T) {
	bin := writeFakeGmx(t, `pwd`)
	r := NewLocalRunner(bin)

	dir := t.TempDir()
	out, err := r.Run(context.Background(), Command{Args: []string{"mdrun"}, Dir: dir})
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Base(dir))
}

func TestLocalRunnerDescribe(t *testing.T) {
	r := NewLocalRunner("")
	assert.Equal(t, DefaultBinary, r.Binary)

	line := r.Describe(Command{Args: []string{"editconf", "-bt", "cubic"}})
	assert.Equal(t, "gmx editconf -bt cubic", line)
}

func TestCheckInstall(t *testing.T) {
	bin := writeFakeGmx(t, `echo "GROMACS version: 2024.2"`)
	require.NoError(t, CheckInstall(context.Background(), NewLocalRunner(bin)))
}

func TestCheckInstallMissingBinary(t *testing.T) {
	r := NewLocalRunner(filepath.Join(t.TempDir(), "does-not-exist"))

	err := CheckInstall(context.Background(), r)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitGmxNotFound, cliErr.Code)
}
