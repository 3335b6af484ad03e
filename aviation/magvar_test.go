// aviation/magvar_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "testing"

func TestApproximateVariation(t *testing.T) {
	near := func(a, b float32) bool { d := a - b; return d > -0.01 && d < 0.01 }

	for _, tc := range []struct {
		name     string
		lat, lon float32
		want     float32
	}{
		{"Denver", 39.57, -104.849, 5.97},
		{"New York", 40.7, -74.0, -17.26},
		{"Atlanta", 33.7, -84.4, -6.08},
		{"Seattle", 47.6, -122.3, 15.83},
	} {
		mv := approximateVariation(tc.lat, tc.lon)
		if !near(mv.Degrees, tc.want) {
			t.Errorf("%s: got %v, expected %v", tc.name, mv.Degrees, tc.want)
		}
		if mv.Source != MagVarApproximate || !mv.Approximate() {
			t.Errorf("%s: source %q", tc.name, mv.Source)
		}
	}

	// Out-of-region inputs clamp to the plausible CONUS range.
	if mv := approximateVariation(90, -116); mv.Degrees != 20 {
		t.Errorf("upper clamp: got %v", mv.Degrees)
	}
	if mv := approximateVariation(0, -74); mv.Degrees != -25 {
		t.Errorf("lower clamp: got %v", mv.Degrees)
	}
}

func TestMagVarSource(t *testing.T) {
	if (MagVar{Degrees: -8, Source: MagVarNOAA}).Approximate() {
		t.Errorf("NOAA value flagged approximate")
	}
	if (MagVar{Degrees: -8, Source: MagVarManual}).Approximate() {
		t.Errorf("manual value flagged approximate")
	}
}
