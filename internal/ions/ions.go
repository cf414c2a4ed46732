// Package ions computes the ion counts used to neutralize a solvated
// simulation system at a target salt concentration.
package ions

import (
	"math"

	"github.com/mmr-tortoise/gmxpipe/internal/model"
)

// DefaultConcentration is the physiological salt concentration (mol/L)
// used when nothing overrides it.
const DefaultConcentration = 0.15

// avogadro is the Avogadro constant (1/mol), at the precision the
// original workflow used.
const avogadro = 6.022e23

// Counts returns the sodium and chloride counts for a box of volumeNm3
// nm^3 with residual charge netCharge at concMolar mol/L.
//
// The base count converts the box volume from nm^3 to liters
// (1 nm^3 = 1e-27 m^3 = 1e-24 L) and rounds the ion number up:
//
//	n = ceil(volumeNm3 * 1e-27 * 1000 * concMolar * 6.022e23)
//
// Both species get n ions; the species countering the residual charge
// gets |netCharge| extra, truncated to an integer, so the total system
// charge after insertion is (near) zero.
func Counts(volumeNm3, netCharge, concMolar float64) model.IonCounts {
	n := int(math.Ceil(volumeNm3 * 1e-27 * 1000 * concMolar * avogadro))
	extra := int(math.Abs(netCharge))

	if netCharge < 0 {
		return model.IonCounts{Sodium: n + extra, Chloride: n}
	}
	return model.IonCounts{Sodium: n, Chloride: n + extra}
}
