// cmd/perfbrief/main_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import "testing"

func TestParseWind(t *testing.T) {
	for _, tc := range []struct {
		s        string
		dir      int // -1 for variable
		speed    int
		gust     int
		expectOk bool
	}{
		{"270@12", 270, 12, 0, true},
		{"270@12G18", 270, 12, 18, true},
		{"VRB@5", -1, 5, 0, true},
		{"vrb@5", -1, 5, 0, true},
		{"0@0", 0, 0, 0, true},
		{"360@25g35", 360, 25, 35, true},
		{"270", 0, 0, 0, false},
		{"abc@5", 0, 0, 0, false},
		{"370@5", 0, 0, 0, false},
		{"-10@5", 0, 0, 0, false},
		{"270@x", 0, 0, 0, false},
		{"270@12G8", 0, 0, 0, false}, // gust below sustained speed
		{"270@12Gx", 0, 0, 0, false},
	} {
		dir, speed, gust, err := parseWind(tc.s)
		if !tc.expectOk {
			if err == nil {
				t.Errorf("parseWind(%q) succeeded, expected an error", tc.s)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseWind(%q): %v", tc.s, err)
			continue
		}
		if tc.dir == -1 {
			if dir != nil {
				t.Errorf("parseWind(%q) direction %d, expected variable", tc.s, *dir)
			}
		} else if dir == nil || *dir != tc.dir {
			t.Errorf("parseWind(%q) direction %v, expected %d", tc.s, dir, tc.dir)
		}
		if speed != tc.speed || gust != tc.gust {
			t.Errorf("parseWind(%q) = %d/%d kt, expected %d/%d", tc.s, speed, gust, tc.speed, tc.gust)
		}
	}
}
