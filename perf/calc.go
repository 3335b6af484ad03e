// perf/calc.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import "github.com/mmp/perfbrief/math"

// StandardPressureInHg is standard sea-level pressure.
const StandardPressureInHg = 29.92

// Rounding units for the derived altitudes; pressure altitude matches the
// 10 ft granularity of the POH charts.
const (
	PressureAltitudeRoundFt = 10
	DensityAltitudeRoundFt  = 50
)

// PressureAltitude is the altitude the altimeter would indicate if set to
// 29.92: elevation plus roughly 1000 ft per inch of mercury below standard.
func PressureAltitude(fieldElevationFt, altimeterInHg float32) float32 {
	pa := fieldElevationFt + (StandardPressureInHg-altimeterInHg)*1000
	return math.RoundTo(pa, PressureAltitudeRoundFt)
}

// ISATemp is the standard atmosphere temperature at the given pressure
// altitude: 15 C at sea level, lapsing 2 C per 1000 ft. One decimal place;
// this is also the formula that resolves "temp_isa" table anchors.
func ISATemp(paFt float32) float32 {
	return math.RoundTo(15-2*paFt/1000, 0.1)
}

// DensityAltitude corrects pressure altitude for non-standard temperature at
// 120 ft per degree of ISA deviation.
func DensityAltitude(paFt, oatC float32) float32 {
	da := paFt + 120*(oatC-ISATemp(paFt))
	return math.RoundTo(da, DensityAltitudeRoundFt)
}
