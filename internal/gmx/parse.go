package gmx

import (
	"strconv"
	"strings"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// chargeMarker is the labeled line grompp prints when the assembled
// system carries a residual charge. The wording is owned by GROMACS.
const chargeMarker = "System has non-zero total charge:"

// ParseBoxVolume extracts the simulation cell volume (nm^3) from
// editconf output.
//
// editconf reports the volume as the last labeled value in its output:
//
//	new box vectors  :  7.354  7.354  7.354 (nm)
//	new box angles   :  90.00  90.00  90.00 (degrees)
//	new box volume   : 397.78               (nm^3)
//
// The value is taken as the first field after the final colon in the
// whole output. A missing colon or a non-numeric field is a parse error
// (ExitParseError).
func ParseBoxVolume(output string) (float64, error) {
	idx := strings.LastIndex(output, ":")
	if idx < 0 {
		return 0, model.NewCLIError(model.ExitParseError,
			"box volume not found in editconf output (no labeled value)")
	}

	fields := strings.Fields(output[idx+1:])
	if len(fields) == 0 {
		return 0, model.NewCLIError(model.ExitParseError,
			"box volume not found in editconf output (empty value)")
	}

	volume, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, model.WrapCLIError(model.ExitParseError,
			"box volume not parseable from editconf output", err)
	}
	return volume, nil
}

// ParseNetCharge extracts the residual system charge from grompp output.
//
// grompp prints a note of the form
//
//	NOTE 2 [file topol.top, line 18]:
//	  System has non-zero total charge: -8.000000
//
// only when the charge is non-zero. An absent marker therefore means the
// system is neutral, and ParseNetCharge returns 0 with no error. When the
// marker is present but the value after its colon is not numeric, that is
// a parse error.
func ParseNetCharge(output string) (float64, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, chargeMarker) {
			continue
		}

		idx := strings.LastIndex(line, ":")
		value := strings.TrimSpace(line[idx+1:])
		charge, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, model.WrapCLIError(model.ExitParseError,
				"net charge not parseable from grompp output", err)
		}
		return charge, nil
	}

	// No marker: grompp stays silent for neutral systems.
	return 0, nil
}
