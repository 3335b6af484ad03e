// briefing/briefing.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package briefing assembles SR22T performance briefings: it gathers
// weather and airport data, runs the performance calculations, applies the
// go/no-go criteria, and renders the result as Markdown.
package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/mmp/perfbrief/aviation"
	"github.com/mmp/perfbrief/log"
	"github.com/mmp/perfbrief/perf"
	"github.com/mmp/perfbrief/wx"

	"golang.org/x/sync/errgroup"
)

type Operation string

const (
	Departure Operation = "departure"
	Arrival   Operation = "arrival"
)

// Conditions is the weather a briefing is computed against, from whichever
// source supplied it. WindDirDeg is nil for variable winds; WindGustKt is
// zero when no gusts were reported.
type Conditions struct {
	Source        string
	TempC         float32
	AltimeterInHg float32
	WindDirDeg    *int
	WindSpeedKt   int
	WindGustKt    int
}

// SID is a departure procedure's published climb requirement, entered by
// the pilot from the chart.
type SID struct {
	Name              string
	GradientFtNM      float32
	InitialAltitudeFt int // 0 when the procedure doesn't specify one
}

// Request describes one briefing to build.
type Request struct {
	ICAO      string
	RunwayId  string // empty selects the runway best aligned with the wind
	Operation Operation

	// Weather overrides the METAR fetch when non-nil.
	Weather *Conditions

	// SID, for departures, enables the climb requirement compliance check.
	SID *SID

	// WeightLb defaults to the dataset's max gross weight when zero.
	WeightLb int

	// MagVarDeg is a manual magnetic variation override, degrees east
	// positive, used if the NOAA lookup fails.
	MagVarDeg *float32
}

func (r *Request) validate() error {
	if r.ICAO == "" {
		return fmt.Errorf("no airport specified")
	}
	if r.Operation != Departure && r.Operation != Arrival {
		return fmt.Errorf("%q: unknown operation", r.Operation)
	}
	if r.SID != nil && r.Operation != Departure {
		return fmt.Errorf("SID given for %s operation", r.Operation)
	}
	return nil
}

// SIDAnalysis pairs the requested procedure with the aircraft's computed
// ability to fly it.
type SIDAnalysis struct {
	SID        SID
	Compliance perf.SIDCompliance
}

// Decision is the bottom line. Reasons is empty for a GO.
type Decision struct {
	Go      bool
	Reasons []string
}

// Briefing holds everything computed for one operation; the departure-only
// and arrival-only sections are nil when they don't apply.
type Briefing struct {
	GeneratedAt time.Time
	Operation   Operation

	Airport *aviation.Airport
	Runway  aviation.Runway
	MagVar  aviation.MagVar
	Surface aviation.SurfaceSuitability

	Weather Conditions
	METAR   *wx.METAR // set when Weather came from a live observation

	PressureAltitudeFt float32
	ISATempC           float32
	DensityAltitudeFt  float32

	WeightLb int
	Wind     perf.WindComponents
	VSpeeds  perf.VSpeedResult

	// Climb holds the departure climb analysis, or the go-around analysis
	// for arrivals.
	Climb perf.ClimbPerformance

	Takeoff *perf.Distances
	SIDInfo *SIDAnalysis
	CAPS    *CAPSInfo
	Phases  *TakeoffPhases

	Landing *perf.Distances

	MarginFt float32
	Decision Decision
}

// minMarginFt is the runway length beyond the POH 50 ft obstacle distance
// below which the briefing is a NO-GO.
const minMarginFt = 500

// TailwindWarningKt is the tailwind component above which the report calls
// out a warning.
const TailwindWarningKt = 5

// Build gathers weather and airport data for the request and computes the
// briefing. The METAR and airport fetches run concurrently; the magnetic
// variation lookup runs on the airport branch since it needs the location.
// A distance interpolation outside the POH charts fails the briefing;
// gradient lookups degrade to per-speed errors that render as "data not
// available".
func Build(ctx context.Context, req Request, lg *log.Logger) (*Briefing, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	ts := perf.SR22T()

	var metar *wx.METAR
	var airport *aviation.Airport
	var magvar aviation.MagVar

	g, gctx := errgroup.WithContext(ctx)
	if req.Weather == nil {
		g.Go(func() error {
			m, err := wx.FetchMETAR(gctx, req.ICAO)
			if err != nil {
				return err
			}
			metar = m
			return nil
		})
	}
	g.Go(func() error {
		ap, err := aviation.FetchAirport(gctx, req.ICAO, lg)
		if err != nil {
			return err
		}
		magvar = aviation.MagneticVariation(gctx, ap.Location.Latitude(),
			ap.Location.Longitude(), req.MagVarDeg, lg)
		ap.ApplyMagneticVariation(magvar.Degrees)
		airport = ap
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(req, ts, airport, magvar, metar)
}

// assemble runs the calculations once all external data is in hand.
func assemble(req Request, ts *perf.TableSet, airport *aviation.Airport, magvar aviation.MagVar, metar *wx.METAR) (*Briefing, error) {
	b := &Briefing{
		GeneratedAt: time.Now().UTC(),
		Operation:   req.Operation,
		Airport:     airport,
		MagVar:      magvar,
		Weather:     resolveConditions(req.Weather, metar),
		METAR:       metar,
	}

	rwy, err := selectRunway(airport, req.RunwayId, b.Weather.WindDirDeg)
	if err != nil {
		return nil, err
	}
	b.Runway = *rwy
	b.Surface = aviation.CheckSurfaceSuitability(rwy.Surface)

	b.PressureAltitudeFt = perf.PressureAltitude(float32(airport.ElevationFt), b.Weather.AltimeterInHg)
	b.ISATempC = perf.ISATemp(b.PressureAltitudeFt)
	b.DensityAltitudeFt = perf.DensityAltitude(b.PressureAltitudeFt, b.Weather.TempC)

	// Variable winds get no component credit in either direction.
	if b.Weather.WindDirDeg != nil {
		b.Wind = perf.ComputeWindComponents(rwy.MagneticHeading,
			float32(*b.Weather.WindDirDeg), float32(b.Weather.WindSpeedKt))
	}

	b.WeightLb = req.WeightLb
	if b.WeightLb == 0 {
		b.WeightLb = ts.Metadata.WeightLb
	}
	b.VSpeeds = ts.ComputeVSpeeds(b.Wind.CrosswindKt, b.Weather.WindSpeedKt,
		b.Weather.WindGustKt, b.WeightLb)

	b.Climb = ts.ClimbAnalysis(b.PressureAltitudeFt, b.Weather.TempC,
		b.DensityAltitudeFt, b.Wind.HeadwindKt)

	switch req.Operation {
	case Departure:
		dist, err := ts.TakeoffDistance.Interpolate(b.PressureAltitudeFt, b.Weather.TempC)
		if err != nil {
			return nil, fmt.Errorf("%s: takeoff distance: %w", req.ICAO, err)
		}
		b.Takeoff = &dist
		b.MarginFt = float32(rwy.LengthFt) - dist.TotalDistanceFt

		if req.SID != nil {
			b.SIDInfo = &SIDAnalysis{
				SID:        *req.SID,
				Compliance: b.Climb.CheckSIDCompliance(req.SID.GradientFtNM),
			}
		}

		caps := CAPSBrief(airport.ElevationFt, b.DensityAltitudeFt, &b.Climb)
		b.CAPS = &caps
		phases := TakeoffPhaseBrief(airport.ElevationFt, rwy.LengthFt,
			dist.TotalDistanceFt, b.MarginFt, caps.MinimumMSLFt)
		b.Phases = &phases

	case Arrival:
		dist, err := ts.LandingDistance.Interpolate(b.PressureAltitudeFt, b.Weather.TempC)
		if err != nil {
			return nil, fmt.Errorf("%s: landing distance: %w", req.ICAO, err)
		}
		b.Landing = &dist
		b.MarginFt = float32(rwy.LengthFt) - dist.TotalDistanceFt
	}

	b.Decision = decide(b)
	return b, nil
}

// resolveConditions normalizes whichever weather source we ended up with.
func resolveConditions(manual *Conditions, metar *wx.METAR) Conditions {
	if manual != nil {
		c := *manual
		c.Source = "Manual weather"
		return c
	}
	return Conditions{
		Source:        "NOAA METAR",
		TempC:         metar.Temperature,
		AltimeterInHg: metar.Altimeter_inHg(),
		WindDirDeg:    metar.WindDir,
		WindSpeedKt:   metar.WindSpeed,
		WindGustKt:    metar.GustKt(),
	}
}

// selectRunway resolves the requested designator, or picks the runway most
// nearly into the wind when none was given.
func selectRunway(ap *aviation.Airport, id string, windDirDeg *int) (*aviation.Runway, error) {
	if id != "" {
		return ap.Runway(id)
	}
	if windDirDeg != nil {
		if rwy := ap.BestRunway(float32(*windDirDeg)); rwy != nil {
			return rwy, nil
		}
	}
	if len(ap.Runways) > 0 {
		return &ap.Runways[0], nil
	}
	return nil, fmt.Errorf("%s: no runways", ap.ICAO)
}

// decide applies the go/no-go criteria: the runway margin must exceed
// minMarginFt, and a requested SID must be flyable at some climb speed. An
// unverifiable SID (no requirement entered) never blocks the departure; it
// is the pilot's to confirm.
func decide(b *Briefing) Decision {
	var reasons []string
	if b.MarginFt <= minMarginFt {
		reasons = append(reasons, "Insufficient runway margin")
	}
	if b.SIDInfo != nil && !b.SIDInfo.Compliance.Compliant() {
		reasons = append(reasons, fmt.Sprintf("Cannot meet %s climb requirement", b.SIDInfo.SID.Name))
	}
	return Decision{Go: len(reasons) == 0, Reasons: reasons}
}
