// perf/wind.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import "github.com/mmp/perfbrief/math"

// MaxDemonstratedCrosswindKt is the SR22T's POH maximum demonstrated
// crosswind component.
const MaxDemonstratedCrosswindKt = 21

// WindComponents is the decomposition of a wind against a runway. Headwind
// is signed: negative means tailwind. Crosswind is a magnitude with the side
// carried separately.
type WindComponents struct {
	HeadwindKt          float32
	CrosswindKt         float32
	FromRight           bool
	ExceedsDemonstrated bool
}

func (w WindComponents) IsTailwind() bool {
	return w.HeadwindKt < 0
}

// ComputeWindComponents resolves a wind into components along and across a
// runway. All directions are degrees magnetic. The angular difference is
// normalized so that, e.g., runway 030 with wind from 300 works out to a
// 90 degree left crosswind rather than a 270 degree angle. A crosswind above
// the demonstrated maximum is flagged, not rejected.
func ComputeWindComponents(runwayHeadingDeg, windDirDeg, windSpeedKt float32) WindComponents {
	angle := math.SignedHeadingDifference(runwayHeadingDeg, windDirDeg)
	rad := math.Radians(angle)

	headwind := windSpeedKt * math.Cos(rad)
	crosswind := windSpeedKt * math.Sin(rad)

	return WindComponents{
		HeadwindKt:          headwind,
		CrosswindKt:         math.Abs(crosswind),
		FromRight:           crosswind > 0,
		ExceedsDemonstrated: math.Abs(crosswind) > MaxDemonstratedCrosswindKt,
	}
}
