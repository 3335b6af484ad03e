// aviation/surface.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mmp/perfbrief/util"
)

// POH performance tables assume a hard surface runway; soft field
// operations need different techniques and see degraded performance.
var hardSurfaces = []string{
	"asphalt", "concrete", "paved", "sealed", "asp", "con",
	"bitumen", "tarmac", "runway", "hard",
}

var softSurfaces = []string{
	"grass", "turf", "dirt", "gravel", "soil", "sand", "earth",
	"sod", "clay", "unpaved", "natural", "soft",
}

// SurfaceSuitability reports whether standard performance numbers apply to
// a runway surface.
type SurfaceSuitability struct {
	SuitableForStandardPerformance bool
	SurfaceType                    string
	Warning                        string // empty when none
	RequiresPilotEvaluation        bool
}

// CheckSurfaceSuitability classifies a runway surface description. Soft
// wins when a description matches both lists ("hard gravel" is still a soft
// field); an unrecognized surface is treated as hard but flagged for
// verification, and an empty one is assumed hard without comment.
func CheckSurfaceSuitability(surface string) SurfaceSuitability {
	lower := strings.ToLower(surface)

	contains := func(keys []string) bool {
		return slices.ContainsFunc(keys, func(k string) bool { return strings.Contains(lower, k) })
	}

	switch {
	case lower != "" && contains(softSurfaces):
		return SurfaceSuitability{
			SurfaceType:             surface,
			Warning:                 fmt.Sprintf("Soft field (%s) - standard performance not applicable", surface),
			RequiresPilotEvaluation: true,
		}
	case lower == "" || contains(hardSurfaces):
		return SurfaceSuitability{
			SuitableForStandardPerformance: true,
			SurfaceType:                    util.Select(surface != "", surface, "Assumed hard surface"),
		}
	default:
		return SurfaceSuitability{
			SuitableForStandardPerformance: true,
			SurfaceType:                    surface,
			Warning:                        fmt.Sprintf("Unknown surface type (%s) - verify suitability", surface),
			RequiresPilotEvaluation:        true,
		}
	}
}
