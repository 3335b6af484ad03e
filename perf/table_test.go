// perf/table_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTempLabel(t *testing.T) {
	for _, tc := range []struct {
		label string
		tempC float32
		isa   bool
		ok    bool
	}{
		{"temp_0c", 0, false, true},
		{"temp_10c", 10, false, true},
		{"temp_50c", 50, false, true},
		{"temp_minus20c", -20, false, true},
		{"temp_minus40c_ft_per_nm", -40, false, true},
		{"temp_20c_ft_per_nm", 20, false, true},
		{"temp_isa", 0, true, true},
		{"temp_isa_ft_per_nm", 0, true, true},
		{"temp_10", 0, false, false},  // missing c suffix
		{"tmp_10c", 0, false, false},  // bad prefix
		{"temp_c", 0, false, false},   // no digits
		{"temp_minusc", 0, false, false},
		{"temp_1x0c", 0, false, false}, // non-digit
		{"ground_roll_ft", 0, false, false},
	} {
		tempC, isa, err := parseTempLabel(tc.label)
		if tc.ok && err != nil {
			t.Errorf("%q: unexpected error %v", tc.label, err)
		} else if !tc.ok && err == nil {
			t.Errorf("%q: expected error", tc.label)
		}
		if err == nil && (tempC != tc.tempC || isa != tc.isa) {
			t.Errorf("%q: got %v/%v, expected %v/%v", tc.label, tempC, isa, tc.tempC, tc.isa)
		}
	}
}

// A minimal but complete dataset; the error-case tests below mutate it
// textually, so the conditions are kept on single lines.
const testDataset = `{
    "metadata": {"aircraft_model": "Test SR22T", "weight_lb": 3600, "data_source": "unit test", "data_version": "1", "notes": ""},
    "v_speeds": {
        "vr_kias": 80,
        "approach_speeds": {
            "full_flaps": {"final_approach_base_kias": 82.5, "threshold_crossing_kias": 79, "touchdown_target_kias": 67, "config_notes": "Normal landing configuration"},
            "partial_flaps_50": {"final_approach_base_kias": 87.5, "threshold_crossing_kias": 84, "touchdown_target_kias": 72, "config_notes": "Strong crosswind configuration"},
            "no_flaps": {"final_approach_base_kias": 92.5, "threshold_crossing_kias": 89, "touchdown_target_kias": 77, "config_notes": "Emergency or high crosswind"}
        },
        "wind_corrections": {"gust_factor_multiplier": 0.5, "crosswind_partial_flaps_threshold": 15, "weight_correction_per_100lb": 1}
    },
    "performance_data": {
        "landing_distance": {"conditions": [
            {"weight_lb": 3600, "pressure_altitude_ft": 2000, "performance": {"temp_0c": {"ground_roll_ft": 1201, "total_distance_ft": 2568}, "temp_20c": {"ground_roll_ft": 1289, "total_distance_ft": 2699}}},
            {"weight_lb": 3600, "pressure_altitude_ft": 0, "performance": {"temp_0c": {"ground_roll_ft": 1117, "total_distance_ft": 2447}, "temp_20c": {"ground_roll_ft": 1198, "total_distance_ft": 2565}}}
        ]},
        "takeoff_distance": {"conditions": [
            {"weight_lb": 3600, "pressure_altitude_ft": 0, "performance": {"temp_0c": {"ground_roll_ft": 1352, "total_distance_ft": 1865}, "temp_20c": {"ground_roll_ft": 1574, "total_distance_ft": 2154}}}
        ]},
        "takeoff_climb_gradient_91": {"climb_speed_kias": 91, "weight_lb": 3600, "conditions": [
            {"pressure_altitude_ft": 0, "performance": {"temp_0c_ft_per_nm": 879, "temp_isa_ft_per_nm": 782}}
        ]},
        "enroute_climb_gradient_120": {"climb_speed_kias": 120, "weight_lb": 3600, "conditions": [
            {"pressure_altitude_ft": 0, "performance": {"temp_0c_ft_per_nm": 679, "temp_isa_ft_per_nm": 597}}
        ]}
    }
}`

func TestLoadTableSet(t *testing.T) {
	ts, err := LoadTableSet([]byte(testDataset))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ts.Metadata.AircraftModel != "Test SR22T" || ts.Metadata.WeightLb != 3600 {
		t.Errorf("metadata not carried through: %+v", ts.Metadata)
	}

	// Conditions appear in the file high-altitude first; rows must come out
	// sorted by pressure altitude.
	ld := ts.LandingDistance
	if ld.Name != "landing_distance" || ld.RoundTo != DistanceRoundFt {
		t.Errorf("landing table: got name %q round %v", ld.Name, ld.RoundTo)
	}
	if len(ld.Rows) != 2 || ld.Rows[0].PressureAltitudeFt != 0 || ld.Rows[1].PressureAltitudeFt != 2000 {
		t.Errorf("landing rows not sorted by pressure altitude: %+v", ld.Rows)
	}
	if d := ld.Rows[0].Cells[0].Value; d.GroundRollFt != 1117 || d.TotalDistanceFt != 2447 {
		t.Errorf("landing cell: got %+v", d)
	}

	g91 := ts.TakeoffClimbGradient91
	if g91.ClimbSpeedKIAS != 91 || g91.RoundTo != GradientRoundFtNM {
		t.Errorf("gradient table: speed %d round %v", g91.ClimbSpeedKIAS, g91.RoundTo)
	}

	// The ISA sentinel resolves against the row's own pressure altitude and
	// sorts into place: at sea level ISA is 15C, after the 0C column.
	cells := g91.Rows[0].Cells
	if len(cells) != 2 || cells[0].TempC != 0 || cells[1].TempC != 15 || !cells[1].ISA {
		t.Errorf("ISA cell not resolved/sorted: %+v", cells)
	}
	if cells[1].Value != 782 {
		t.Errorf("ISA cell value: got %v", cells[1].Value)
	}
}

func TestLoadTableSetErrors(t *testing.T) {
	replace := func(old, new string) string {
		s := strings.Replace(testDataset, old, new, 1)
		if s == testDataset {
			t.Fatalf("replacement %q not found", old)
		}
		return s
	}

	for _, tc := range []struct {
		name string
		json string
		want string // substring of the error
	}{
		{
			name: "duplicate temperature label",
			json: replace(`"temp_20c": {"ground_roll_ft": 1198`, `"temp_0c": {"ground_roll_ft": 1198`),
			want: "duplicate key",
		},
		{
			name: "missing climb speed",
			json: replace(`"climb_speed_kias": 91, `, ``),
			want: "missing climb_speed_kias",
		},
		{
			name: "duplicate pressure altitude",
			json: replace(`"pressure_altitude_ft": 2000`, `"pressure_altitude_ft": 0`),
			want: "duplicate pressure altitude",
		},
		{
			name: "mismatched temperature columns",
			json: replace(`"temp_20c": {"ground_roll_ft": 1289`, `"temp_30c": {"ground_roll_ft": 1289`),
			want: "temperature labels differ",
		},
		{
			name: "missing distance field",
			json: replace(`"ground_roll_ft": 1352, `, ``),
			want: "missing field",
		},
		{
			name: "unparsable temperature label",
			json: replace(`"temp_0c": {"ground_roll_ft": 1352`, `"degrees_0c": {"ground_roll_ft": 1352`),
			want: "unparsable temperature label",
		},
		{
			name: "missing flap configuration",
			json: replace(`,
            "no_flaps": {"final_approach_base_kias": 92.5, "threshold_crossing_kias": 89, "touchdown_target_kias": 77, "config_notes": "Emergency or high crosswind"}`, ``),
			want: `missing "no_flaps" configuration`,
		},
		{
			name: "not json",
			json: `{"metadata": [}`,
			want: "",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadTableSet([]byte(tc.json))
			if err == nil {
				t.Fatal("expected error")
			}
			var mte MalformedTableError
			if !errors.As(err, &mte) {
				t.Fatalf("expected MalformedTableError, got %T: %v", err, err)
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}
