// perf/vspeeds.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import (
	"fmt"

	"github.com/mmp/perfbrief/util"
)

// Flap configuration names as they appear in the dataset's approach_speeds
// object.
const (
	FlapsFull      = "full_flaps"
	FlapsPartial50 = "partial_flaps_50"
	FlapsNone      = "no_flaps"
)

// ApproachSpeeds is the three-stage approach profile for one flap
// configuration: a stabilized final approach speed, a threshold crossing
// speed where power comes out, and a touchdown target just above stall.
type ApproachSpeeds struct {
	FinalApproachBaseKIAS float32 `json:"final_approach_base_kias"`
	ThresholdCrossingKIAS float32 `json:"threshold_crossing_kias"`
	TouchdownTargetKIAS   float32 `json:"touchdown_target_kias"`
	ConfigNotes           string  `json:"config_notes"`
}

// WindCorrections holds the wind adjustment constants from the dataset:
// how much of the gust factor is added to approach speeds and the crosswind
// above which partial flaps are recommended.
type WindCorrections struct {
	GustFactorMultiplier           float32 `json:"gust_factor_multiplier"`
	CrosswindPartialFlapsThreshold float32 `json:"crosswind_partial_flaps_threshold"`
	WeightCorrectionPer100Lb       float32 `json:"weight_correction_per_100lb"`
}

// VSpeedData is the aircraft's V-speed schedule: a fixed rotation speed plus
// per-flap-configuration approach profiles.
type VSpeedData struct {
	VrKIAS          int                       `json:"vr_kias"`
	ApproachSpeeds  map[string]ApproachSpeeds `json:"approach_speeds"`
	WindCorrections WindCorrections           `json:"wind_corrections"`
}

func (v *VSpeedData) validate(e *util.ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())
	e.Push("v_speeds")
	defer e.Pop()

	if v.VrKIAS <= 0 {
		e.ErrorString("vr_kias: missing or not positive")
	}
	for _, config := range []string{FlapsFull, FlapsPartial50, FlapsNone} {
		ac, ok := v.ApproachSpeeds[config]
		if !ok {
			e.ErrorString("approach_speeds: missing %q configuration", config)
			continue
		}
		if ac.FinalApproachBaseKIAS <= 0 || ac.ThresholdCrossingKIAS <= 0 || ac.TouchdownTargetKIAS <= 0 {
			e.ErrorString("approach_speeds %s: speeds must be positive", config)
		}
	}
	if v.WindCorrections.GustFactorMultiplier < 0 || v.WindCorrections.GustFactorMultiplier > 1 {
		e.ErrorString("wind_corrections: gust_factor_multiplier %v outside [0, 1]",
			v.WindCorrections.GustFactorMultiplier)
	}
}

// VSpeedResult is the complete speed package for one set of wind conditions:
// the rotation speed, the selected approach configuration with gust
// corrections applied, and ready-to-brief guidance strings.
type VSpeedResult struct {
	VrKIAS       int
	TakeoffNotes string

	FlapConfig     string // FlapsFull or FlapsPartial50
	ConfigNotes    string
	Recommendation string

	FinalApproachKIAS     float32
	ThresholdCrossingKIAS float32
	TouchdownTargetKIAS   float32

	GustFactorKt     int
	GustCorrectionKt int

	WeightNote           string
	SpeedControlGuidance []string
}

// ComputeVSpeeds builds the speed package for the given wind conditions.
// crosswindKt is the magnitude of the crosswind component on the selected
// runway; windSpeedKt and windGustKt come straight from the METAR, with
// windGustKt zero when no gusts were reported.
//
// Half the gust factor is added to the final approach speed and a quarter
// (integer halving twice) to the threshold crossing speed; the touchdown
// target is never corrected since it is tied to stall speed. Crosswind above
// the dataset threshold selects the partial-flap configuration.
func (ts *TableSet) ComputeVSpeeds(crosswindKt float32, windSpeedKt, windGustKt, weightLb int) VSpeedResult {
	vs := &ts.VSpeeds

	gustFactor := 0
	if windGustKt > windSpeedKt {
		gustFactor = windGustKt - windSpeedKt
	}
	gustCorrection := int(float32(gustFactor) * vs.WindCorrections.GustFactorMultiplier)

	config, recommendation := FlapsFull, "Full flaps - normal configuration"
	if crosswindKt > vs.WindCorrections.CrosswindPartialFlapsThreshold {
		config, recommendation = FlapsPartial50, "50% flaps recommended for crosswind control"
	}
	ac := vs.ApproachSpeeds[config]

	r := VSpeedResult{
		VrKIAS:                vs.VrKIAS,
		TakeoffNotes:          fmt.Sprintf("Rotate at %d KIAS regardless of conditions", vs.VrKIAS),
		FlapConfig:            config,
		ConfigNotes:           ac.ConfigNotes,
		Recommendation:        recommendation,
		FinalApproachKIAS:     ac.FinalApproachBaseKIAS + float32(gustCorrection),
		ThresholdCrossingKIAS: ac.ThresholdCrossingKIAS + float32(gustCorrection/2),
		TouchdownTargetKIAS:   ac.TouchdownTargetKIAS,
		GustFactorKt:          gustFactor,
		GustCorrectionKt:      gustCorrection,
	}

	if weightLb >= ts.Metadata.WeightLb {
		r.WeightNote = fmt.Sprintf("At max gross weight (%d lb)", ts.Metadata.WeightLb)
	} else {
		r.WeightNote = fmt.Sprintf("At %d lb (consider reducing speeds)", weightLb)
	}

	r.SpeedControlGuidance = []string{
		fmt.Sprintf("Stabilized Final: %v KIAS (%s)", r.FinalApproachKIAS, recommendation),
		fmt.Sprintf("Threshold Crossing: %v KIAS (begin power reduction)", r.ThresholdCrossingKIAS),
		fmt.Sprintf("Touchdown Target: %v KIAS (just above stall)", r.TouchdownTargetKIAS),
	}
	if gustCorrection > 0 {
		r.SpeedControlGuidance = append(r.SpeedControlGuidance,
			fmt.Sprintf("Gust Correction: +%d kt added for %d kt gust factor", gustCorrection, gustFactor))
	}

	return r
}
