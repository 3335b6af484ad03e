// perf/climb.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import "github.com/mmp/perfbrief/math"

// TrueAirspeed applies the 2% per 1000 ft density altitude rule of thumb to
// an indicated airspeed.
func TrueAirspeed(iasKt, densityAltitudeFt float32) float32 {
	return iasKt * (1 + 0.02*densityAltitudeFt/1000)
}

// ClimbRate describes climb capability at one indicated airspeed.
type ClimbRate struct {
	SpeedKIAS     int
	TASKt         float32
	GroundSpeedKt float32
	Gradient      Scalar // ft/NM from the POH gradient chart
	GradientErr   error  // set when the lookup fell outside the chart
}

// ClimbPerformance pairs the two climb profiles the POH publishes gradient
// charts for.
type ClimbPerformance struct {
	Takeoff ClimbRate // 91 KIAS, obstacle clearance
	Enroute ClimbRate // 120 KIAS, cruise climb
}

// ClimbAnalysis computes true airspeed, ground speed, and available climb
// gradient for both climb profiles. TAS and ground speed are reported to a
// tenth of a knot; a positive headwindKt improves the effective gradient by
// reducing ground speed. A gradient lookup outside its chart's range is
// carried as an error on the ClimbRate, never as a zero gradient.
func (ts *TableSet) ClimbAnalysis(paFt, tempC, daFt, headwindKt float32) ClimbPerformance {
	rate := func(t *GradientTable) ClimbRate {
		tas := TrueAirspeed(float32(t.ClimbSpeedKIAS), daFt)
		r := ClimbRate{
			SpeedKIAS:     t.ClimbSpeedKIAS,
			TASKt:         math.RoundTo(tas, 0.1),
			GroundSpeedKt: math.RoundTo(tas-headwindKt, 0.1),
		}
		r.Gradient, r.GradientErr = t.Interpolate(paFt, tempC)
		return r
	}
	return ClimbPerformance{
		Takeoff: rate(&ts.TakeoffClimbGradient91),
		Enroute: rate(&ts.EnrouteClimbGradient120),
	}
}

// SIDStatus classifies how a departure procedure's required climb gradient
// can be met.
type SIDStatus string

const (
	// The enroute climb speed meets the requirement; use it.
	SIDPreferred SIDStatus = "preferred"
	// Only the slower takeoff climb speed meets the requirement; an
	// aggressive climb profile with airspeed discipline is needed.
	SIDAggressiveRequired SIDStatus = "aggressive_required"
	// Neither speed meets the requirement.
	SIDNonCompliant SIDStatus = "non_compliant"
)

// SIDCompliance reports whether the aircraft out-climbs a required departure
// gradient, and at which speed.
type SIDCompliance struct {
	RequiredFtNM float32
	Status       SIDStatus
	SpeedKIAS    int     // compliant climb speed, 0 when non-compliant
	MarginFtNM   float32 // gradient in excess of the requirement at SpeedKIAS
}

func (c SIDCompliance) Compliant() bool { return c.Status != SIDNonCompliant }

// CheckSIDCompliance compares the available climb gradients against a
// required departure gradient in ft/NM. Meeting the requirement at the
// enroute speed is preferred; meeting it only at the takeoff climb speed
// flags an aggressive climb. A gradient that was unavailable never satisfies
// the requirement.
func (p ClimbPerformance) CheckSIDCompliance(requiredFtNM float32) SIDCompliance {
	c := SIDCompliance{RequiredFtNM: requiredFtNM, Status: SIDNonCompliant}
	if p.Enroute.GradientErr == nil && float32(p.Enroute.Gradient) >= requiredFtNM {
		c.Status = SIDPreferred
		c.SpeedKIAS = p.Enroute.SpeedKIAS
		c.MarginFtNM = float32(p.Enroute.Gradient) - requiredFtNM
	} else if p.Takeoff.GradientErr == nil && float32(p.Takeoff.Gradient) >= requiredFtNM {
		c.Status = SIDAggressiveRequired
		c.SpeedKIAS = p.Takeoff.SpeedKIAS
		c.MarginFtNM = float32(p.Takeoff.Gradient) - requiredFtNM
	}
	return c
}
