// util/util_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"
	"strconv"
	"testing"
)

func TestSelect(t *testing.T) {
	if got := Select(true, 1, 2); got != 1 {
		t.Errorf("Select(true, 1, 2) = %d, expected 1", got)
	}
	if got := Select(false, 1, 2); got != 2 {
		t.Errorf("Select(false, 1, 2) = %d, expected 2", got)
	}
	if got := Select(true, "left", "right"); got != "left" {
		t.Errorf("Select(true, left, right) = %s, expected left", got)
	}
}

func TestMapSlice(t *testing.T) {
	a := []int{1, 2, 3, 4}
	b := MapSlice(a, func(v int) string { return strconv.Itoa(2 * v) })
	if want := []string{"2", "4", "6", "8"}; !slices.Equal(b, want) {
		t.Errorf("MapSlice returned %v, expected %v", b, want)
	}

	if got := MapSlice(nil, func(v int) int { return v }); got != nil {
		t.Errorf("MapSlice of nil slice returned %v, expected nil", got)
	}
}

func TestAtof(t *testing.T) {
	for _, tc := range []struct {
		s    string
		want float64
	}{
		{"351.4", 351.4},
		{" 5885", 5885},
		{"-104.8481 ", -104.8481},
	} {
		if got, err := Atof(tc.s); err != nil {
			t.Errorf("Atof(%q): %v", tc.s, err)
		} else if got != tc.want {
			t.Errorf("Atof(%q) = %v, expected %v", tc.s, got, tc.want)
		}
	}
	if _, err := Atof("turf"); err == nil {
		t.Errorf("expected error for non-numeric input")
	}
}
