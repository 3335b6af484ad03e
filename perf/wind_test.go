// perf/wind_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import "testing"

func near(a, b float32) bool {
	d := a - b
	return d > -0.01 && d < 0.01
}

func TestComputeWindComponents(t *testing.T) {
	// Direct headwind.
	w := ComputeWindComponents(90, 90, 20)
	if !near(w.HeadwindKt, 20) || !near(w.CrosswindKt, 0) {
		t.Errorf("direct headwind: got %+v", w)
	}
	if w.IsTailwind() {
		t.Errorf("direct headwind flagged as tailwind")
	}

	// Direct tailwind.
	w = ComputeWindComponents(90, 270, 20)
	if !near(w.HeadwindKt, -20) || !near(w.CrosswindKt, 0) {
		t.Errorf("direct tailwind: got %+v", w)
	}
	if !w.IsTailwind() {
		t.Errorf("direct tailwind not flagged")
	}

	// Pure crosswind from the right.
	w = ComputeWindComponents(90, 180, 20)
	if !near(w.HeadwindKt, 0) || !near(w.CrosswindKt, 20) {
		t.Errorf("right crosswind: got %+v", w)
	}
	if !w.FromRight {
		t.Errorf("wind from 180 on runway 090 should be from the right")
	}

	// Crosswind across the 360/0 wrap: runway 030, wind 300 is 90 degrees
	// to the left, not 270 to the right.
	w = ComputeWindComponents(30, 300, 20)
	if !near(w.CrosswindKt, 20) {
		t.Errorf("left crosswind across wrap: got %+v", w)
	}
	if w.FromRight {
		t.Errorf("wind from 300 on runway 030 should be from the left")
	}

	// Quartering headwind, 45 degrees: both components speed/sqrt(2).
	w = ComputeWindComponents(360, 45, 20)
	if !near(w.HeadwindKt, 14.14) || !near(w.CrosswindKt, 14.14) {
		t.Errorf("quartering headwind: got %+v", w)
	}
	if !w.FromRight || w.IsTailwind() {
		t.Errorf("quartering headwind from 45 on runway 360: got %+v", w)
	}
}

func TestExceedsDemonstrated(t *testing.T) {
	w := ComputeWindComponents(360, 90, 22)
	if !w.ExceedsDemonstrated {
		t.Errorf("22 kt direct crosswind should exceed the %d kt demonstrated max", MaxDemonstratedCrosswindKt)
	}
	w = ComputeWindComponents(360, 90, 20)
	if w.ExceedsDemonstrated {
		t.Errorf("20 kt crosswind should not exceed the demonstrated max")
	}
}
