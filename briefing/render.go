// briefing/render.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmp/perfbrief/math"
	"github.com/mmp/perfbrief/perf"
)

// ff formats a float for the report without trailing zero noise: 82.5 stays
// "82.5", 79 becomes "79".
func ff(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// RenderMarkdown renders the briefing as a Markdown report with one section
// per concern. Departures get SID, CAPS, and the phased emergency briefing;
// arrivals get the landing calculation detail and go-around performance.
func RenderMarkdown(b *Briefing) string {
	var sb strings.Builder

	writeHeader(&sb, b)
	writeAirport(&sb, b)

	if b.Operation == Departure {
		writeSIDSection(&sb, b)
		writeCAPSSection(&sb, b)
		writePhasedEmergency(&sb, b)
	}

	writeWeather(&sb, b)

	if b.Operation == Departure {
		writeTakeoffPerformance(&sb, b)
	} else {
		writeLandingPerformance(&sb, b)
	}

	writeDecision(&sb, b)

	if b.Operation == Arrival {
		writeApproachVSpeeds(&sb, b)
	} else {
		if b.CAPS != nil && b.Decision.Go {
			sb.WriteString("\n## Takeoff Emergency Brief\n")
			for _, point := range b.CAPS.EmergencyBrief {
				fmt.Fprintf(&sb, "- %s\n", point)
			}
		}
		sb.WriteString("\n## Calculation Details\n")
		sb.WriteString("**Takeoff Ground Roll Calculation:**\n")
		fmt.Fprintf(&sb, "- Pressure altitude: %s ft\n", ff(b.PressureAltitudeFt))
		fmt.Fprintf(&sb, "- Temperature: %s°C\n", ff(b.Weather.TempC))
		sb.WriteString("- Interpolated from POH performance tables\n")
		fmt.Fprintf(&sb, "- Result: %d ft ground roll\n", int(b.Takeoff.GroundRollFt))
	}

	sb.WriteString("\n---\n")
	return sb.String()
}

func writeHeader(sb *strings.Builder, b *Briefing) {
	fmt.Fprintf(sb, "# SR22T %s BRIEFING\n\n", strings.ToUpper(string(b.Operation)))
	fmt.Fprintf(sb, "Generated: %s UTC | perfbrief\n", b.GeneratedAt.Format("15:04"))
	fmt.Fprintf(sb, "Data source: %s + OurAirports (magnetic variation: %s)\n\n",
		b.Weather.Source, b.MagVar.Source)
}

func magvarString(m float32) string {
	if m < 0 {
		return ff(math.RoundTo(-m, 0.1)) + "°W"
	}
	return ff(math.RoundTo(m, 0.1)) + "°E"
}

func writeAirport(sb *strings.Builder, b *Briefing) {
	sb.WriteString("## Airport & Runway\n")
	fmt.Fprintf(sb, "- **Airport**: %s %s\n", b.Airport.ICAO, b.Airport.Name)
	fmt.Fprintf(sb, "- **Runway**: %s (%d ft)\n", b.Runway.Id, b.Runway.LengthFt)
	fmt.Fprintf(sb, "- **Elevation**: %d ft MSL\n", b.Airport.ElevationFt)
	fmt.Fprintf(sb, "- **Heading**: %.0f° (Magnetic)\n", b.Runway.MagneticHeading)
	fmt.Fprintf(sb, "- **Magnetic variation**: %s (%s)\n", magvarString(b.MagVar.Degrees), b.MagVar.Source)
	if b.Surface.Warning != "" {
		fmt.Fprintf(sb, "- **⚠️ Surface**: %s\n", b.Surface.Warning)
	} else {
		fmt.Fprintf(sb, "- **Surface**: %s\n", b.Surface.SurfaceType)
	}
	sb.WriteString("\n")
}

func writeSIDSection(sb *strings.Builder, b *Briefing) {
	sb.WriteString("## Standard Instrument Departure\n")
	if b.SIDInfo == nil {
		sb.WriteString("- No SID planned\n")
		sb.WriteString("- Expect vectors or contact ATC for departure instructions\n\n")
		return
	}
	fmt.Fprintf(sb, "- **%s**\n", b.SIDInfo.SID.Name)
	if alt := b.SIDInfo.SID.InitialAltitudeFt; alt > 0 {
		fmt.Fprintf(sb, "  - Initial altitude: %d ft MSL\n", alt)
	}
	fmt.Fprintf(sb, "  - Required climb gradient: %s ft/NM\n", ff(b.SIDInfo.SID.GradientFtNM))
	sb.WriteString("  - Notes: Manual SID input - pilot verified climb gradient\n\n")
}

func writeCAPSSection(sb *strings.Builder, b *Briefing) {
	caps := b.CAPS
	sb.WriteString("## CAPS (Cirrus Airframe Parachute System)\n")
	fmt.Fprintf(sb, "- **Minimum deployment**: %d ft MSL (%d ft AGL)\n", caps.MinimumMSLFt, caps.MinimumAGLFt)
	fmt.Fprintf(sb, "- **Recommended deployment**: %d ft MSL (%d ft AGL)\n", caps.RecommendedMSLFt, caps.RecommendedAGLFt)
	fmt.Fprintf(sb, "- **Pattern altitude**: %d ft MSL (CAPS available)\n", caps.PatternMSLFt)
	fmt.Fprintf(sb, "- **Density altitude impact**: %s\n", caps.DensityAltitudeImpact)
	sb.WriteString("- **Departure considerations**:\n")
	for _, point := range caps.DepartureBrief {
		fmt.Fprintf(sb, "  - %s\n", point)
	}
	sb.WriteString("\n")
}

func writePhasedEmergency(sb *strings.Builder, b *Briefing) {
	sb.WriteString("## Takeoff Emergency Briefing (Phased Approach)\n\n")
	for _, paragraph := range b.Phases.BriefText() {
		sb.WriteString(paragraph)
		sb.WriteString("\n\n")
	}
}

// windText describes the along-runway component the way it is briefed:
// magnitude plus "headwind" or "tailwind".
func windText(w perf.WindComponents) string {
	h := math.RoundTo(w.HeadwindKt, 0.1)
	if w.IsTailwind() {
		return fmt.Sprintf("%s kt tailwind", ff(-h))
	}
	return fmt.Sprintf("%s kt headwind", ff(h))
}

func crosswindSide(w perf.WindComponents) string {
	if w.FromRight {
		return "right"
	}
	return "left"
}

func writeWeather(sb *strings.Builder, b *Briefing) {
	tempF := int(b.Weather.TempC*9/5 + 32)

	sb.WriteString("## Weather\n")
	if b.METAR != nil {
		fmt.Fprintf(sb, "- **METAR**: %s\n", b.METAR.Raw)
	}
	fmt.Fprintf(sb, "- **Temperature**: %s°C (%d°F)\n", ff(b.Weather.TempC), tempF)
	fmt.Fprintf(sb, "- **Altimeter**: %s inHg\n", ff(b.Weather.AltimeterInHg))
	fmt.Fprintf(sb, "- **Pressure altitude**: %s ft\n", ff(b.PressureAltitudeFt))
	fmt.Fprintf(sb, "- **Density altitude**: %s ft (%s vs PA)\n", ff(b.DensityAltitudeFt),
		ff(b.DensityAltitudeFt-b.PressureAltitudeFt))

	if b.Weather.WindDirDeg == nil {
		fmt.Fprintf(sb, "- **Wind**: Variable at %d kt\n", b.Weather.WindSpeedKt)
		sb.WriteString("  - variable direction - no headwind or crosswind credit\n")
	} else {
		wind := fmt.Sprintf("%d°/%d kt", *b.Weather.WindDirDeg, b.Weather.WindSpeedKt)
		if b.Weather.WindGustKt > 0 {
			wind = fmt.Sprintf("%d°/%dG%d kt", *b.Weather.WindDirDeg, b.Weather.WindSpeedKt,
				b.Weather.WindGustKt)
		}
		fmt.Fprintf(sb, "- **Wind**: %s\n", wind)
		fmt.Fprintf(sb, "  - %s, %s kt %s crosswind\n", windText(b.Wind),
			ff(math.RoundTo(b.Wind.CrosswindKt, 0.1)), crosswindSide(b.Wind))
		if b.Wind.ExceedsDemonstrated {
			fmt.Fprintf(sb, "  - ⚠️ **CROSSWIND**: exceeds %d kt maximum demonstrated component\n",
				perf.MaxDemonstratedCrosswindKt)
		}
		if b.Wind.IsTailwind() && -b.Wind.HeadwindKt > TailwindWarningKt {
			fmt.Fprintf(sb, "  - ⚠️ **TAILWIND WARNING**: %s kt tailwind component\n",
				ff(math.RoundTo(-b.Wind.HeadwindKt, 0.1)))
		}
	}

	if b.Operation == Arrival {
		sb.WriteString("\n**Landing Ground Roll Calculation:**\n")
		fmt.Fprintf(sb, "- Pressure altitude: %s ft\n", ff(b.PressureAltitudeFt))
		fmt.Fprintf(sb, "- Temperature: %s°C\n", ff(b.Weather.TempC))
		sb.WriteString("- Interpolated from POH performance tables\n")
		fmt.Fprintf(sb, "- Result: %d ft ground roll\n", int(b.Landing.GroundRollFt))
	}

	sb.WriteString("\n")
}

func writeClimbRate(sb *strings.Builder, r perf.ClimbRate) {
	fmt.Fprintf(sb, "- %d KIAS: %s KTAS, %s kt GS\n", r.SpeedKIAS, ff(r.TASKt), ff(r.GroundSpeedKt))
	if r.GradientErr == nil {
		fmt.Fprintf(sb, "  - Aircraft gradient capability: %d ft/NM\n", int(r.Gradient))
	} else {
		sb.WriteString("  - Gradient data: Not available\n")
	}
}

func writeTakeoffPerformance(sb *strings.Builder, b *Briefing) {
	fmt.Fprintf(sb, "## Performance (%d lb, 50%% flaps)\n", b.WeightLb)
	sb.WriteString("**Takeoff Performance**\n")
	fmt.Fprintf(sb, "- Ground roll: %d ft\n", int(b.Takeoff.GroundRollFt))
	fmt.Fprintf(sb, "- Over 50 ft obstacle: %d ft\n", int(b.Takeoff.TotalDistanceFt))
	fmt.Fprintf(sb, "- Runway available: %d ft\n", b.Runway.LengthFt)
	fmt.Fprintf(sb, "- **Margin**: %d ft\n\n", int(b.MarginFt))

	sb.WriteString("**Climb Performance**\n")
	writeClimbRate(sb, b.Climb.Takeoff)
	writeClimbRate(sb, b.Climb.Enroute)
	sb.WriteString("\n")

	if b.SIDInfo != nil {
		writeSIDCompliance(sb, b)
	}

	sb.WriteString("**V-speeds (Takeoff)**\n")
	fmt.Fprintf(sb, "- **Vr (Rotate)**: %d KIAS\n", b.VSpeeds.VrKIAS)
	fmt.Fprintf(sb, "- %s\n\n", b.VSpeeds.TakeoffNotes)
}

func writeSIDCompliance(sb *strings.Builder, b *Briefing) {
	sid := b.SIDInfo.SID
	c := b.SIDInfo.Compliance
	req := int(c.RequiredFtNM)

	sb.WriteString("**SID Climb Requirements**\n")
	if sid.InitialAltitudeFt > 0 {
		fmt.Fprintf(sb, "- **%s Initial Altitude**: %d ft MSL\n", sid.Name, sid.InitialAltitudeFt)
	}

	switch c.Status {
	case perf.SIDPreferred:
		fmt.Fprintf(sb, "- **%s Requirement**: %d ft/NM (✅ COMPLIANT at %d KIAS)\n", sid.Name, req, c.SpeedKIAS)
		fmt.Fprintf(sb, "- **Compliance**: PREFERRED SPEED - Use %d KIAS for comfortable margin\n", c.SpeedKIAS)
		fmt.Fprintf(sb, "- **%d KIAS Margin**: %d ft/NM above requirement\n", c.SpeedKIAS, int(c.MarginFtNM))
	case perf.SIDAggressiveRequired:
		fmt.Fprintf(sb, "- **%s Requirement**: %d ft/NM (✅ COMPLIANT at %d KIAS ONLY)\n", sid.Name, req, c.SpeedKIAS)
		fmt.Fprintf(sb, "- **⚠️ AGGRESSIVE CLIMB REQUIRED**: Must use %d KIAS to meet SID requirement\n", c.SpeedKIAS)
		sb.WriteString("- **⚠️ CAUTION**: Steep climb angle - maintain airspeed discipline\n")
		fmt.Fprintf(sb, "- **%d KIAS Margin**: %d ft/NM above requirement (tight margin)\n", c.SpeedKIAS, int(c.MarginFtNM))
		writeGradientDeficit(sb, b.Climb.Enroute, c.RequiredFtNM, " (insufficient)")
	case perf.SIDNonCompliant:
		fmt.Fprintf(sb, "- **%s Requirement**: %d ft/NM (❌ NON-COMPLIANT)\n", sid.Name, req)
		sb.WriteString("- **⚠️ SID CANNOT BE FLOWN**: Aircraft performance insufficient at any speed\n")
		writeGradientDeficit(sb, b.Climb.Enroute, c.RequiredFtNM, "")
		writeGradientDeficit(sb, b.Climb.Takeoff, c.RequiredFtNM, "")
	}
	sb.WriteString("\n")
}

func writeGradientDeficit(sb *strings.Builder, r perf.ClimbRate, requiredFtNM float32, suffix string) {
	if r.GradientErr != nil {
		return
	}
	fmt.Fprintf(sb, "- **%d KIAS Deficit**: %d ft/NM below requirement%s\n",
		r.SpeedKIAS, int(requiredFtNM-float32(r.Gradient)), suffix)
}

func writeLandingPerformance(sb *strings.Builder, b *Briefing) {
	fmt.Fprintf(sb, "## Performance (%d lb, 100%% flaps)\n", b.WeightLb)
	sb.WriteString("**Landing Performance**\n")
	fmt.Fprintf(sb, "- Ground roll: %d ft\n", int(b.Landing.GroundRollFt))
	fmt.Fprintf(sb, "- Total distance: %d ft\n", int(b.Landing.TotalDistanceFt))
	fmt.Fprintf(sb, "- Runway available: %d ft\n", b.Runway.LengthFt)
	fmt.Fprintf(sb, "- **Margin**: %d ft\n\n", int(b.MarginFt))

	sb.WriteString("**Go-Around Climb Performance**\n")
	r := b.Climb.Enroute
	fmt.Fprintf(sb, "- **%d KIAS**: %s KTAS, %s kt GS\n", r.SpeedKIAS, ff(r.TASKt), ff(r.GroundSpeedKt))
	if r.GradientErr == nil {
		fmt.Fprintf(sb, "  - Available gradient: %d ft/NM\n", int(r.Gradient))
	} else {
		sb.WriteString("  - Gradient data: Not available\n")
	}
	sb.WriteString("- **Note**: Performance for missed approach or go-around maneuver\n")
	sb.WriteString("- **⚠️ Balked Landing**: Not covered by tool - requires pilot evaluation\n\n")
}

func writeDecision(sb *strings.Builder, b *Briefing) {
	if b.Decision.Go {
		sb.WriteString("## Decision: **GO**\n")
		sb.WriteString("✅ All margins adequate for safe operation\n")
	} else {
		sb.WriteString("## Decision: **NO-GO**\n")
		fmt.Fprintf(sb, "❌ %s\n", strings.Join(b.Decision.Reasons, ", "))
	}
}

func writeApproachVSpeeds(sb *strings.Builder, b *Briefing) {
	v := b.VSpeeds
	sb.WriteString("\n**V-speeds (Approach & Landing) - Boldmethod Three-Stage**\n")
	fmt.Fprintf(sb, "- **Final Approach**: %s KIAS (%s)\n", ff(v.FinalApproachKIAS), v.ConfigNotes)
	fmt.Fprintf(sb, "- **Threshold Crossing**: %s KIAS (begin power reduction)\n", ff(v.ThresholdCrossingKIAS))
	fmt.Fprintf(sb, "- **Touchdown Target**: %s KIAS (just above stall)\n", ff(v.TouchdownTargetKIAS))
	if v.GustCorrectionKt > 0 {
		fmt.Fprintf(sb, "- **Gust Correction**: +%d kt added to base speeds\n", v.GustCorrectionKt)
	}
	if v.FlapConfig == perf.FlapsPartial50 {
		fmt.Fprintf(sb, "- **⚠️ Crosswind Config**: 50%% flaps recommended (est. %s kt crosswind)\n",
			ff(math.RoundTo(b.Wind.CrosswindKt, 0.1)))
	}
	sb.WriteString("- **Speed Control**: Progressive deceleration during approach phase\n")
	fmt.Fprintf(sb, "- **Weight**: %s\n\n", v.WeightNote)
}

///////////////////////////////////////////////////////////////////////////
// Phased cockpit format

const phaseSeparator = "#################### "

// RenderPhased renders a departure briefing in the three-phase cockpit
// sequence: numbers to check after the IFR clearance, the emergency brief
// for the runup area, and the short recap for holding short. Arrivals fall
// back to RenderMarkdown.
func RenderPhased(b *Briefing) string {
	if b.Operation != Departure {
		return RenderMarkdown(b)
	}

	var sb strings.Builder
	writeHeader(&sb, b)

	// Phase 1: everything that feeds the go/no-go call.
	sb.WriteString(phaseSeparator + "PHASE 1: POST-IFR CLEARANCE\n\n")
	sb.WriteString("**Airport & Runway**\n")
	fmt.Fprintf(&sb, "- **Airport**: %s %s\n", b.Airport.ICAO, b.Airport.Name)
	fmt.Fprintf(&sb, "- **Runway**: %s (%d ft)\n", b.Runway.Id, b.Runway.LengthFt)
	fmt.Fprintf(&sb, "- **Runway Heading**: %.0f° magnetic\n", b.Runway.MagneticHeading)
	if b.Surface.Warning != "" {
		fmt.Fprintf(&sb, "- **⚠️ Surface**: %s\n", b.Surface.Warning)
	}
	sb.WriteString("\n")

	sb.WriteString("**SID Departure**\n")
	if b.SIDInfo == nil {
		sb.WriteString("- No SID planned\n\n")
	} else {
		sid, c := b.SIDInfo.SID, b.SIDInfo.Compliance
		if sid.InitialAltitudeFt > 0 {
			fmt.Fprintf(&sb, "- **%s Initial Altitude**: %d ft MSL\n", sid.Name, sid.InitialAltitudeFt)
		}
		switch c.Status {
		case perf.SIDPreferred:
			fmt.Fprintf(&sb, "- **%s**: %d ft/NM (✅ COMPLIANT at %d KIAS)\n", sid.Name,
				int(c.RequiredFtNM), c.SpeedKIAS)
		case perf.SIDAggressiveRequired:
			fmt.Fprintf(&sb, "- **%s**: %d ft/NM (⚠️ REQUIRES %d KIAS)\n", sid.Name,
				int(c.RequiredFtNM), c.SpeedKIAS)
			sb.WriteString("- **CAUTION**: Aggressive climb required for SID compliance\n")
		case perf.SIDNonCompliant:
			fmt.Fprintf(&sb, "- **%s**: %d ft/NM (❌ NON-COMPLIANT)\n", sid.Name, int(c.RequiredFtNM))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("**Climb Performance**\n")
	writePhasedClimbRate(&sb, b.Climb.Takeoff)
	writePhasedClimbRate(&sb, b.Climb.Enroute)
	sb.WriteString("\n")

	if b.Decision.Go {
		sb.WriteString("**DECISION: GO**\n")
		fmt.Fprintf(&sb, "- **Takeoff Margin**: %d ft\n", int(b.MarginFt))
		if b.SIDInfo != nil && b.SIDInfo.Compliance.Compliant() {
			sb.WriteString("- **SID Compliance**: ✅ Confirmed\n")
		}
	} else {
		sb.WriteString("**DECISION: NO-GO**\n")
		fmt.Fprintf(&sb, "- **Reasons**: %s\n", strings.Join(b.Decision.Reasons, ", "))
	}
	sb.WriteString("\n")

	// Phase 2: the emergency plan, briefed while the engine runup holds
	// everyone's attention anyway.
	sb.WriteString(phaseSeparator + "PHASE 2: RUNUP AREA\n\n")
	if b.Decision.Go {
		sb.WriteString("**Takeoff Emergency Brief**\n")
		for _, point := range b.CAPS.EmergencyBrief {
			fmt.Fprintf(&sb, "- %s\n", point)
		}
		sb.WriteString("\n")
		for _, paragraph := range b.Phases.BriefText() {
			sb.WriteString(paragraph)
			sb.WriteString("\n\n")
		}
	}

	fmt.Fprintf(&sb, "**Takeoff Performance (%d lb, 50%% flaps)**\n", b.WeightLb)
	fmt.Fprintf(&sb, "- **Ground Roll**: %d ft\n", int(b.Takeoff.GroundRollFt))
	fmt.Fprintf(&sb, "- **Over 50 ft**: %d ft\n", int(b.Takeoff.TotalDistanceFt))
	fmt.Fprintf(&sb, "- **Runway Available**: %d ft\n", b.Runway.LengthFt)
	fmt.Fprintf(&sb, "- **Margin**: %d ft\n\n", int(b.MarginFt))

	sb.WriteString("**V-speeds (Takeoff)**\n")
	fmt.Fprintf(&sb, "- **Vr (Rotate)**: %d KIAS\n", b.VSpeeds.VrKIAS)
	fmt.Fprintf(&sb, "- %s\n\n", b.VSpeeds.TakeoffNotes)

	// Phase 3: the last look before taking the runway.
	sb.WriteString(phaseSeparator + "PHASE 3: HOLDING SHORT\n\n")
	fmt.Fprintf(&sb, "- **Runway**: %s (confirm visually)\n", b.Runway.Id)
	fmt.Fprintf(&sb, "- **Heading**: %.0f° magnetic\n", b.Runway.MagneticHeading)
	if b.Weather.WindDirDeg == nil {
		fmt.Fprintf(&sb, "- **Wind**: Variable at %d kt\n", b.Weather.WindSpeedKt)
	} else {
		fmt.Fprintf(&sb, "- **Wind**: %s\n", windText(b.Wind))
		fmt.Fprintf(&sb, "- **Crosswind**: %s kt %s\n", ff(math.RoundTo(b.Wind.CrosswindKt, 0.1)),
			crosswindSide(b.Wind))
		if b.Wind.IsTailwind() && -b.Wind.HeadwindKt > TailwindWarningKt {
			fmt.Fprintf(&sb, "- **⚠️ TAILWIND WARNING**: %s kt tailwind component\n",
				ff(math.RoundTo(-b.Wind.HeadwindKt, 0.1)))
		}
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- **Expected Ground Roll**: %d ft\n\n", int(b.Takeoff.GroundRollFt))

	if b.Decision.Go {
		sb.WriteString("**Emergency Brief Reminder**\n")
		fmt.Fprintf(&sb, "- **At %d ft**: abort the takeoff if before 60 KIAS\n", b.Phases.AbortDecisionFt)
		fmt.Fprintf(&sb, "- **After rotation**: CAPS available at %d ft MSL\n", b.CAPS.MinimumMSLFt)
	}

	return sb.String()
}

func writePhasedClimbRate(sb *strings.Builder, r perf.ClimbRate) {
	fmt.Fprintf(sb, "- **%d KIAS**: %s KTAS, %s kt GS", r.SpeedKIAS, ff(r.TASKt), ff(r.GroundSpeedKt))
	if r.GradientErr == nil {
		fmt.Fprintf(sb, ", %d ft/NM\n", int(r.Gradient))
	} else {
		sb.WriteString(", gradient N/A\n")
	}
}
