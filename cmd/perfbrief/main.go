// cmd/perfbrief/main.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// parses the command line, gathers weather and airport data, and prints
// the briefing.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmp/perfbrief/briefing"
	"github.com/mmp/perfbrief/log"
	"github.com/mmp/perfbrief/util"

	"github.com/goforj/godump"
)

var (
	airport      = flag.String("airport", "", "ICAO identifier of the airport (e.g. KAPA)")
	runway       = flag.String("runway", "", "runway designator; default is the runway most nearly into the wind")
	arrival      = flag.Bool("arrival", false, "brief an arrival instead of a departure")
	temp         = flag.Float64("temp", 0, "temperature in degrees C for manual weather")
	altimeter    = flag.Float64("altimeter", 0, "altimeter setting in inHg for manual weather")
	wind         = flag.String("wind", "", "wind as DDD@SS or DDD@SSGgg (VRB@SS for variable), e.g. 270@12G18")
	magvar       = flag.Float64("magvar", 0, "manual magnetic variation in degrees, east positive")
	sidName      = flag.String("sid", "", "name of the departure procedure")
	sidGradient  = flag.Float64("sid-gradient", 0, "required SID climb gradient in ft/NM")
	sidAltitude  = flag.Int("sid-altitude", 0, "SID initial altitude in ft MSL")
	weight       = flag.Int("weight", 0, "takeoff weight in lb; default is max gross")
	outFile      = flag.String("out", "", "write the briefing to this file instead of stdout")
	phased       = flag.Bool("phased", false, "render the departure in the three-phase cockpit sequence")
	dumpBriefing = flag.Bool("dump", false, "dump the computed briefing structure for debugging")
	saveDefaults = flag.Bool("save-defaults", false, "save -airport, -weight, and -magvar as config defaults")
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
)

// maxCacheBytes bounds the on-disk cache of downloaded airport and METAR
// data.
const maxCacheBytes = 64 * 1024 * 1024

const fetchTimeout = 2 * time.Minute

func main() {
	flag.Parse()

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	config, err := LoadOrMakeDefaultConfig(lg)
	if err != nil {
		lg.Warnf("config: %v", err)
	}

	req, err := makeRequest(config, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "perfbrief: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	if *saveDefaults {
		config.HomeAirport = req.ICAO
		config.WeightLb = req.WeightLb
		config.MagVarDeg = req.MagVarDeg
		if err := config.Save(lg); err != nil {
			lg.Errorf("%v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	b, err := briefing.Build(ctx, req, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "perfbrief: %v\n", err)
		os.Exit(1)
	}

	if *dumpBriefing {
		godump.Dump(b)
	}

	report := briefing.RenderMarkdown(b)
	if *phased {
		report = briefing.RenderPhased(b)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(report), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "perfbrief: %v\n", err)
			os.Exit(1)
		}
	} else {
		os.Stdout.WriteString(report)
	}

	if err := util.CacheCullObjects(maxCacheBytes); err != nil {
		lg.Warnf("culling cache: %v", err)
	}
}

// flagsSet reports which flags were given explicitly, so that zero values
// like -temp 0 or -magvar 0 are distinguishable from flags left at their
// defaults.
func flagsSet() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func makeRequest(config *Config, lg *log.Logger) (briefing.Request, error) {
	set := flagsSet()

	req := briefing.Request{
		ICAO:      strings.ToUpper(strings.TrimSpace(*airport)),
		RunwayId:  *runway,
		Operation: briefing.Departure,
		WeightLb:  *weight,
	}
	if *arrival {
		req.Operation = briefing.Arrival
	}
	if req.ICAO == "" {
		req.ICAO = config.HomeAirport
	}
	if req.ICAO == "" {
		return req, fmt.Errorf("no airport given; use -airport or save one with -save-defaults")
	}
	if req.WeightLb == 0 {
		req.WeightLb = config.WeightLb
	}

	wx, err := manualConditions(set)
	if err != nil {
		return req, err
	}
	req.Weather = wx

	if *sidGradient > 0 {
		name := *sidName
		if name == "" {
			name = "SID"
		}
		req.SID = &briefing.SID{
			Name:              name,
			GradientFtNM:      float32(*sidGradient),
			InitialAltitudeFt: *sidAltitude,
		}
	} else if *sidName != "" {
		return req, fmt.Errorf("-sid also needs -sid-gradient from the procedure chart")
	}

	if set["magvar"] {
		mv := float32(*magvar)
		req.MagVarDeg = &mv
	} else {
		req.MagVarDeg = config.MagVarDeg
	}

	return req, nil
}

// manualConditions builds the manual weather from -temp, -altimeter, and
// -wind, or returns nil when none were given so that the METAR is fetched
// instead.
func manualConditions(set map[string]bool) (*briefing.Conditions, error) {
	if !set["temp"] && !set["altimeter"] && !set["wind"] {
		return nil, nil
	}
	if !set["temp"] || !set["altimeter"] {
		return nil, fmt.Errorf("manual weather needs both -temp and -altimeter")
	}

	c := &briefing.Conditions{
		TempC:         float32(*temp),
		AltimeterInHg: float32(*altimeter),
	}
	if *wind != "" {
		var err error
		c.WindDirDeg, c.WindSpeedKt, c.WindGustKt, err = parseWind(*wind)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// parseWind parses METAR-style wind groups: "270@12", "270@12G18", and
// "VRB@5". A variable direction comes back as a nil direction.
func parseWind(s string) (dir *int, speedKt, gustKt int, err error) {
	dirStr, rest, ok := strings.Cut(strings.ToUpper(s), "@")
	if !ok {
		return nil, 0, 0, fmt.Errorf("%s: expected DDD@SS, DDD@SSGgg, or VRB@SS", s)
	}

	speedStr, gustStr, haveGust := strings.Cut(rest, "G")
	if speedKt, err = strconv.Atoi(speedStr); err != nil || speedKt < 0 {
		return nil, 0, 0, fmt.Errorf("%s: invalid wind speed %q", s, speedStr)
	}
	if haveGust {
		if gustKt, err = strconv.Atoi(gustStr); err != nil || gustKt < speedKt {
			return nil, 0, 0, fmt.Errorf("%s: invalid gust speed %q", s, gustStr)
		}
	}

	if dirStr != "VRB" {
		d, err := strconv.Atoi(dirStr)
		if err != nil || d < 0 || d > 360 {
			return nil, 0, 0, fmt.Errorf("%s: invalid wind direction %q", s, dirStr)
		}
		dir = &d
	}
	return dir, speedKt, gustKt, nil
}
