package ions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 264.714 nm^3 at 0.15 M: 264.714e-27 m^3 * 1000 L/m^3 * 0.15 mol/L
// * 6.022e23 /mol = 23.91..., rounded up to 24.
func TestCountsBaseConcentration(t *testing.T) {
	counts := Counts(264.714, 0, DefaultConcentration)
	assert.Equal(t, 24, counts.Sodium)
	assert.Equal(t, 24, counts.Chloride)
}

// A negatively charged system is balanced by extra positive ions.
func TestCountsNegativeCharge(t *testing.T) {
	counts := Counts(264.714, -8, DefaultConcentration)
	assert.Equal(t, 24+8, counts.Sodium)
	assert.Equal(t, 24, counts.Chloride)
}

// A positively charged system is balanced by extra negative ions.
func TestCountsPositiveCharge(t *testing.T) {
	counts := Counts(264.714, 5, DefaultConcentration)
	assert.Equal(t, 24, counts.Sodium)
	assert.Equal(t, 24+5, counts.Chloride)
}

// Fractional charges truncate, matching the integer ion counts genion
// accepts.
func TestCountsFractionalCharge(t *testing.T) {
	counts := Counts(264.714, -7.97, DefaultConcentration)
	assert.Equal(t, 24+7, counts.Sodium)
	assert.Equal(t, 24, counts.Chloride)
}

func TestCountsZeroVolume(t *testing.T) {
	counts := Counts(0, -2, DefaultConcentration)
	assert.Equal(t, 2, counts.Sodium)
	assert.Equal(t, 0, counts.Chloride)
}

func TestCountsZeroConcentration(t *testing.T) {
	counts := Counts(500, 0, 0)
	assert.Zero(t, counts.Sodium)
	assert.Zero(t, counts.Chloride)
}

// The sign rule holds across a spread of volumes and charges: the
// counterion side always carries exactly |charge| more ions.
func TestCountsSignRule(t *testing.T) {
	for _, volume := range []float64{1, 100, 264.714, 5000} {
		for _, charge := range []float64{-11, -1, 0, 1, 11} {
			counts := Counts(volume, charge, DefaultConcentration)

			diff := counts.Sodium - counts.Chloride
			if charge < 0 {
				assert.Equal(t, int(-charge), diff, "volume %g charge %g", volume, charge)
			} else {
				assert.Equal(t, -int(charge), diff, "volume %g charge %g", volume, charge)
			}
			assert.GreaterOrEqual(t, counts.Sodium, 0)
			assert.GreaterOrEqual(t, counts.Chloride, 0)
		}
	}
}
