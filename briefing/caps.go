// briefing/caps.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"fmt"

	"github.com/mmp/perfbrief/math"
	"github.com/mmp/perfbrief/perf"
)

// CAPS (Cirrus Airframe Parachute System) deployment altitudes. The POH
// minimum is 600 ft AGL; 1000 ft AGL gives a better descent profile. On
// departure the chute becomes usable around 500 ft AGL, so the brief also
// estimates how long after brake release that takes.
const (
	capsMinimumAGLFt     = 600
	capsRecommendedAGLFt = 1000
	patternAGLFt         = 1000
	capsDepartureAGLFt   = 500
)

// CAPSInfo is the parachute portion of a departure briefing: deployment
// altitudes for this field plus ready-to-read brief points.
type CAPSInfo struct {
	MinimumAGLFt     int
	MinimumMSLFt     int
	RecommendedAGLFt int
	RecommendedMSLFt int
	PatternMSLFt     int

	// DensityAltitudeImpact notes degraded chute performance at high DA.
	DensityAltitudeImpact string

	EmergencyBrief []string

	// DepartureBrief covers initial climb: where CAPS becomes available
	// and, when climb performance is known, how long getting there takes.
	DepartureBrief []string
}

// CAPSBrief computes deployment altitudes for a field elevation and builds
// the emergency brief points. climb supplies the takeoff climb gradient for
// the time-to-CAPS estimate; the estimate is skipped when the gradient
// lookup failed.
func CAPSBrief(elevationFt int, densityAltitudeFt float32, climb *perf.ClimbPerformance) CAPSInfo {
	info := CAPSInfo{
		MinimumAGLFt:     capsMinimumAGLFt,
		MinimumMSLFt:     elevationFt + capsMinimumAGLFt,
		RecommendedAGLFt: capsRecommendedAGLFt,
		RecommendedMSLFt: elevationFt + capsRecommendedAGLFt,
		PatternMSLFt:     elevationFt + patternAGLFt,
	}

	if densityAltitudeFt <= 5000 {
		info.DensityAltitudeImpact = "Standard"
	} else {
		info.DensityAltitudeImpact = "Reduced performance at high density altitude"
	}

	info.EmergencyBrief = []string{
		fmt.Sprintf("CAPS minimum deployment: %d ft MSL (600 ft AGL - POH limit)", info.MinimumMSLFt),
		fmt.Sprintf("CAPS recommended deployment: %d ft MSL (1000 ft AGL)", info.RecommendedMSLFt),
		fmt.Sprintf("Pattern altitude CAPS available: %d ft MSL", info.PatternMSLFt),
		"Emergency procedure: CAPS - PULL - COMMUNICATE - PREPARE",
		"Below 600 ft AGL: Fly the airplane - CAPS deployment not recommended (POH limit)",
	}

	info.DepartureBrief = departureBrief(elevationFt, climb)
	return info
}

func departureBrief(elevationFt int, climb *perf.ClimbPerformance) []string {
	availableMSL := elevationFt + capsDepartureAGLFt
	brief := []string{fmt.Sprintf("CAPS available at %d ft MSL", availableMSL)}

	if climb != nil && climb.Takeoff.GradientErr == nil {
		// Gradient is ft/NM; at the climb speed in kt (NM/h) that is
		// gradient*speed/60 ft/min.
		climbRateFPM := float32(climb.Takeoff.Gradient) * float32(climb.Takeoff.SpeedKIAS) / 60
		if climbRateFPM > 0 {
			timeMin := math.RoundTo(capsDepartureAGLFt/climbRateFPM, 0.1)
			distanceNM := math.RoundTo(float32(climb.Takeoff.SpeedKIAS)/60*timeMin, 0.1)
			brief = append(brief,
				fmt.Sprintf("Time to CAPS: ~%v minutes after takeoff", timeMin),
				fmt.Sprintf("Distance to CAPS: ~%v nm from departure", distanceNM))
		}
	}

	return append(brief, "Initial climb: Fly the airplane - CAPS not available below 600 ft AGL (POH limit)")
}
