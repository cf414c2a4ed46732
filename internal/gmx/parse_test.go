package gmx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// editconfOutput mimics the tail of real gmx editconf output, where the
// box volume is the last labeled value.
const editconfOutput = `Read 33876 atoms
Volume: 264.714 nm^3, corresponds to roughly 119100 electrons
No velocities found
    system size :  3.821  4.145  5.529 (nm)
    diameter    :  5.982               (nm)
    center      :  1.911  2.072  2.764 (nm)
new center      :  3.677  3.677  3.677 (nm)
new box vectors :  7.354  7.354  7.354 (nm)
new box angles  :  90.00  90.00  90.00 (degrees)
new box volume  : 397.78               (nm^3)
`

func TestParseBoxVolume(t *testing.T) {
	volume, err := ParseBoxVolume(editconfOutput)
	require.NoError(t, err)
	assert.InDelta(t, 397.78, volume, 1e-9)
}

func TestParseBoxVolumeNoColon(t *testing.T) {
	_, err := ParseBoxVolume("no labeled values here")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitParseError, cliErr.Code)
}

func TestParseBoxVolumeNotNumeric(t *testing.T) {
	_, err := ParseBoxVolume("new box volume  : garbage (nm^3)")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitParseError, cliErr.Code)
}

func TestParseBoxVolumeEmptyAfterColon(t *testing.T) {
	_, err := ParseBoxVolume("new box volume  :")
	require.Error(t, err)
}

func TestParseNetCharge(t *testing.T) {
	output := `Setting the LD random seed to -198818818

NOTE 2 [file topol.top, line 18]:
  System has non-zero total charge: -8.000000
  Total charge should normally be an integer.

Number of degrees of freedom in T-Coupling group rest is 68475.00
`
	charge, err := ParseNetCharge(output)
	require.NoError(t, err)
	assert.InDelta(t, -8.0, charge, 1e-9)
}

func TestParseNetChargePositive(t *testing.T) {
	charge, err := ParseNetCharge("  System has non-zero total charge: 3.000000\n")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, charge, 1e-9)
}

// grompp prints the charge note only for charged systems; its absence
// means the system is neutral, not that parsing failed.
func TestParseNetChargeNeutralSystem(t *testing.T) {
	charge, err := ParseNetCharge("Analysing residue names:\nThere are: 33876 Water residues\n")
	require.NoError(t, err)
	assert.Zero(t, charge)
}

func TestParseNetChargeMalformedValue(t *testing.T) {
	_, err := ParseNetCharge("System has non-zero total charge: not-a-number\n")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitParseError, cliErr.Code)
}
