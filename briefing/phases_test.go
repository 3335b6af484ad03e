// briefing/phases_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"strings"
	"testing"
)

func TestTakeoffPhaseBrief(t *testing.T) {
	p := TakeoffPhaseBrief(5000, 7000, 2650, 4350, 5600)
	if p.AbortDecisionFt != 1590 {
		t.Errorf("abort point %d, expected 1590 (60%% of 2650)", p.AbortDecisionFt)
	}
	if p.RemainingRunwayFt != 5410 {
		t.Errorf("remaining runway %d, expected 5410", p.RemainingRunwayFt)
	}
	if p.StoppingAssessment != "excellent" {
		t.Errorf("assessment %q with 4350 ft margin", p.StoppingAssessment)
	}
	if p.Phase2CeilingMSLFt != 5600 || p.Phase3CeilingMSLFt != 7000 {
		t.Errorf("phase ceilings %d/%d, expected 5600/7000", p.Phase2CeilingMSLFt, p.Phase3CeilingMSLFt)
	}
	if p.CAPSMinimumMSLFt != 5600 {
		t.Errorf("CAPS minimum %d", p.CAPSMinimumMSLFt)
	}
}

func TestStoppingAssessment(t *testing.T) {
	for _, tc := range []struct {
		marginFt float32
		expected string
	}{
		{1200, "excellent"},
		{1001, "excellent"},
		{1000, "adequate"},
		{800, "adequate"},
		{501, "adequate"},
		{500, "marginal"},
		{400, "marginal"},
		{-100, "marginal"},
	} {
		p := TakeoffPhaseBrief(0, 5000, 2000, tc.marginFt, 600)
		if p.StoppingAssessment != tc.expected {
			t.Errorf("margin %v: assessment %q, expected %q", tc.marginFt,
				p.StoppingAssessment, tc.expected)
		}
	}
}

func TestBriefText(t *testing.T) {
	p := TakeoffPhaseBrief(5000, 7000, 2650, 4350, 5600)
	text := p.BriefText()
	if len(text) != 4 {
		t.Fatalf("%d paragraphs, expected 4", len(text))
	}

	for i, want := range []string{
		"**Phase 1 - Before Rotation (0 to ~1590 feet):**",
		"**Phase 2 - After Rotation (beyond ~1590 feet to 5600 feet MSL):**",
		"**Phase 3 - Intermediate Altitude (5600 to 7000 feet MSL):**",
		"**Phase 4 - Above 7000 feet MSL (2000+ feet AGL):**",
	} {
		if !strings.HasPrefix(text[i], want) {
			t.Errorf("paragraph %d starts %q, expected %q", i, text[i][:40], want)
		}
	}

	if !strings.Contains(text[0], "**abort the takeoff**") ||
		!strings.Contains(text[0], "We have excellent stopping distance available.") {
		t.Errorf("phase 1: %q", text[0])
	}
	if !strings.Contains(text[1], "**committed to takeoff**") ||
		!strings.Contains(text[1], "execute a 30-degree turn") {
		t.Errorf("phase 2: %q", text[1])
	}
	if !strings.Contains(text[2], "**immediate CAPS deployment**") ||
		!strings.Contains(text[2], "Pull the red handle without hesitation.") {
		t.Errorf("phase 3: %q", text[2])
	}
	if !strings.Contains(text[3], "troubleshooting procedures before considering CAPS deployment.") {
		t.Errorf("phase 4: %q", text[3])
	}
}
