// math/heading_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		h, expected float32
	}{
		{0, 0},
		{360, 0},
		{365, 5},
		{-5, 355},
		{-365, 355},
		{720, 0},
		{180, 180},
		{359.5, 359.5},
	}
	for _, tc := range tests {
		if got := NormalizeHeading(tc.h); Abs(got-tc.expected) > 1e-4 {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", tc.h, got, tc.expected)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	tests := []struct {
		a, b, expected float32
	}{
		{0, 0, 0},
		{10, 350, 20},
		{350, 10, 20},
		{90, 270, 180},
		{45, 90, 45},
		{355, 5, 10},
	}
	for _, tc := range tests {
		if got := HeadingDifference(tc.a, tc.b); Abs(got-tc.expected) > 1e-4 {
			t.Errorf("HeadingDifference(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestSignedHeadingDifference(t *testing.T) {
	tests := []struct {
		name     string
		from, to float32
		expected float32
	}{
		{"no turn", 90, 90, 0},
		{"direct headwind angle", 90, 270, 180},
		{"right quarter", 90, 180, 90},
		{"left quarter", 90, 0, -90},
		{"wrap through north cw", 350, 10, 20},
		{"wrap through north ccw", 10, 350, -20},
		{"runway 030 wind 300", 30, 300, -90},
	}
	for _, tc := range tests {
		if got := SignedHeadingDifference(tc.from, tc.to); Abs(got-tc.expected) > 1e-4 {
			t.Errorf("%s: SignedHeadingDifference(%v, %v) = %v, want %v",
				tc.name, tc.from, tc.to, got, tc.expected)
		}
	}
}

func TestOppositeHeading(t *testing.T) {
	tests := []struct {
		h, expected float32
	}{
		{0, 180},
		{180, 0},
		{90, 270},
		{350, 170},
	}
	for _, tc := range tests {
		if got := OppositeHeading(tc.h); Abs(got-tc.expected) > 1e-4 {
			t.Errorf("OppositeHeading(%v) = %v, want %v", tc.h, got, tc.expected)
		}
	}
}
