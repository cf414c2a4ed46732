package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageStatusIsValid(t *testing.T) {
	assert.True(t, StatusOK.IsValid())
	assert.True(t, StatusFailed.IsValid())
	assert.True(t, StatusSkipped.IsValid())
	assert.False(t, StageStatus("running").IsValid())
	assert.False(t, StageStatus("").IsValid())
}

func TestIonCountsString(t *testing.T) {
	counts := IonCounts{Sodium: 42, Chloride: 38}
	assert.Equal(t, "42 NA / 38 CL", counts.String())
}

func TestCLIErrorMessage(t *testing.T) {
	err := NewCLIError(ExitParseError, "box volume not found")
	assert.Equal(t, "box volume not found", err.Error())
	assert.Equal(t, ExitParseError, err.Code)
}

func TestCLIErrorWrapping(t *testing.T) {
	underlying := errors.New("exit status 1")
	err := WrapCLIError(ExitGmxFailed, "gmx grompp failed", underlying)

	assert.Equal(t, "gmx grompp failed: exit status 1", err.Error())

	// Unwrap must expose the underlying error to errors.Is/As.
	require.ErrorIs(t, err, underlying)

	var cliErr *CLIError
	require.True(t, errors.As(error(err), &cliErr))
	assert.Equal(t, ExitGmxFailed, cliErr.Code)
}

func TestFormatCommand(t *testing.T) {
	line := FormatCommand([]string{"gmx", "editconf", "-bt", "cubic", "-d", "1"})
	assert.Equal(t, "gmx editconf -bt cubic -d 1", line)
}
