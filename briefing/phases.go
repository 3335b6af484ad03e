// briefing/phases.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import "fmt"

// Altitude gates for the phased takeoff emergency brief. Below 600 ft AGL
// an engine failure means landing more or less straight ahead; from 600 to
// 2000 ft AGL the chute is the plan; above that there is time to
// troubleshoot first.
const (
	phase2CeilingAGLFt = 600
	phase3CeilingAGLFt = 2000
)

// abortFraction puts the abort decision point at 60% of the computed
// takeoff distance, inside the 50-70% band briefing standards use.
const abortFraction = 0.6

// TakeoffPhases is the phased takeoff emergency brief for one runway: the
// abort decision point on the roll and the altitude gates that switch the
// engine-failure plan from landing ahead, to CAPS, to troubleshooting.
type TakeoffPhases struct {
	AbortDecisionFt    int // distance down the runway, ft
	RemainingRunwayFt  int
	StoppingAssessment string // "excellent", "adequate", or "marginal"
	Phase2CeilingMSLFt int
	Phase3CeilingMSLFt int
	CAPSMinimumMSLFt   int
}

// TakeoffPhaseBrief derives the phase gates from the computed takeoff
// performance. The stopping assessment grades the runway margin: over
// 1000 ft is excellent, over 500 adequate, anything less marginal.
func TakeoffPhaseBrief(elevationFt, runwayLengthFt int, takeoffTotalFt, marginFt float32, capsMinimumMSLFt int) TakeoffPhases {
	abort := int(takeoffTotalFt * abortFraction)

	assessment := "marginal"
	if marginFt > 1000 {
		assessment = "excellent"
	} else if marginFt > 500 {
		assessment = "adequate"
	}

	return TakeoffPhases{
		AbortDecisionFt:    abort,
		RemainingRunwayFt:  runwayLengthFt - abort,
		StoppingAssessment: assessment,
		Phase2CeilingMSLFt: elevationFt + phase2CeilingAGLFt,
		Phase3CeilingMSLFt: elevationFt + phase3CeilingAGLFt,
		CAPSMinimumMSLFt:   capsMinimumMSLFt,
	}
}

// BriefText renders the four phases as readable paragraphs, written to be
// spoken aloud before takeoff.
func (p TakeoffPhases) BriefText() []string {
	return []string{
		fmt.Sprintf("**Phase 1 - Before Rotation (0 to ~%d feet):** If we experience any emergency "+
			"before reaching approximately **%d feet** down the runway, we will **abort the takeoff** "+
			"and bring the aircraft to a stop on the remaining runway. We have %s stopping distance available.",
			p.AbortDecisionFt, p.AbortDecisionFt, p.StoppingAssessment),

		fmt.Sprintf("**Phase 2 - After Rotation (beyond ~%d feet to %d feet MSL):** Once we've used "+
			"more than **%d feet of runway**, we are **committed to takeoff**. If the engine fails "+
			"between rotation and **%d feet MSL (%d feet AGL)**, we will execute a 30-degree turn to "+
			"the right or left to find the best available landing area.",
			p.AbortDecisionFt, p.Phase2CeilingMSLFt, p.AbortDecisionFt, p.Phase2CeilingMSLFt,
			phase2CeilingAGLFt),

		fmt.Sprintf("**Phase 3 - Intermediate Altitude (%d to %d feet MSL):** If the engine fails "+
			"between **%d feet MSL and %d feet MSL (%d-%d feet AGL)**, this is an **immediate CAPS "+
			"deployment**. Pull the red handle without hesitation.",
			p.Phase2CeilingMSLFt, p.Phase3CeilingMSLFt, p.Phase2CeilingMSLFt, p.Phase3CeilingMSLFt,
			phase2CeilingAGLFt, phase3CeilingAGLFt),

		fmt.Sprintf("**Phase 4 - Above %d feet MSL (%d+ feet AGL):** Above **%d feet MSL**, we have "+
			"time for troubleshooting procedures before considering CAPS deployment.",
			p.Phase3CeilingMSLFt, phase3CeilingAGLFt, p.Phase3CeilingMSLFt),
	}
}
