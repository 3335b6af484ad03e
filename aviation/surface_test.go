// aviation/surface_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "testing"

func TestCheckSurfaceSuitability(t *testing.T) {
	// Hard surfaces, including the abbreviated OurAirports codes.
	for _, s := range []string{"Asphalt", "ASP", "ASPH", "concrete", "CON", "PAVED", "tarmac"} {
		r := CheckSurfaceSuitability(s)
		if !r.SuitableForStandardPerformance || r.Warning != "" || r.RequiresPilotEvaluation {
			t.Errorf("%q: %+v", s, r)
		}
		if r.SurfaceType != s {
			t.Errorf("%q: surface type %q", s, r.SurfaceType)
		}
	}

	// Soft fields invalidate standard performance.
	for _, s := range []string{"Grass", "TURF", "gravel", "turf/dirt"} {
		r := CheckSurfaceSuitability(s)
		if r.SuitableForStandardPerformance || !r.RequiresPilotEvaluation {
			t.Errorf("%q: %+v", s, r)
		}
		if r.Warning != "Soft field ("+s+") - standard performance not applicable" {
			t.Errorf("%q: warning %q", s, r.Warning)
		}
	}

	// Soft wins when a description matches both lists.
	if r := CheckSurfaceSuitability("hard gravel"); r.SuitableForStandardPerformance {
		t.Errorf("hard gravel should classify as soft: %+v", r)
	}

	// Unknown surfaces pass with a verification warning.
	r := CheckSurfaceSuitability("water")
	if !r.SuitableForStandardPerformance || !r.RequiresPilotEvaluation {
		t.Errorf("water: %+v", r)
	}
	if r.Warning != "Unknown surface type (water) - verify suitability" {
		t.Errorf("water: warning %q", r.Warning)
	}

	// Empty means assume hard, silently.
	r = CheckSurfaceSuitability("")
	if !r.SuitableForStandardPerformance || r.Warning != "" || r.RequiresPilotEvaluation {
		t.Errorf("empty: %+v", r)
	}
	if r.SurfaceType != "Assumed hard surface" {
		t.Errorf("empty: surface type %q", r.SurfaceType)
	}
}
