// aviation/magvar.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmp/perfbrief/log"
	"github.com/mmp/perfbrief/math"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MagVarSource identifies how a magnetic variation value was obtained. A
// degree or two of variation error turns into knots of wind component error,
// so the provenance travels with the value all the way into the report.
type MagVarSource string

const (
	MagVarNOAA        MagVarSource = "NOAA WMM"
	MagVarManual      MagVarSource = "manual override"
	MagVarApproximate MagVarSource = "regional approximation"
)

// MagVar is a magnetic variation in degrees, positive east, together with
// where it came from.
type MagVar struct {
	Degrees float32
	Source  MagVarSource
}

// Approximate reports whether the value needs pilot verification before
// high-wind operations.
func (m MagVar) Approximate() bool { return m.Source == MagVarApproximate }

// magvarCache holds NOAA results; variation changes on geologic timescales
// so a day is conservative. Lower tiers are cheap and are not cached.
var magvarCache = expirable.NewLRU[string, MagVar](64, nil, 24*time.Hour)

// MagneticVariation resolves the magnetic variation at a location, trying in
// order: the NOAA World Magnetic Model API, the caller's manual override,
// and a CONUS regional approximation. It always produces a value; the Source
// says how much to trust it.
func MagneticVariation(ctx context.Context, lat, lon float32, manual *float32, lg *log.Logger) MagVar {
	key := fmt.Sprintf("%.2f,%.2f", lat, lon)
	if mv, ok := magvarCache.Get(key); ok {
		return mv
	}

	if decl, err := fetchNOAADeclination(ctx, lat, lon); err == nil {
		lg.Infof("NOAA WMM declination %+.2f at %.3f, %.3f", decl, lat, lon)
		mv := MagVar{Degrees: decl, Source: MagVarNOAA}
		magvarCache.Add(key, mv)
		return mv
	} else {
		lg.Warnf("NOAA WMM declination unavailable: %v", err)
	}

	if manual != nil {
		return MagVar{Degrees: *manual, Source: MagVarManual}
	}

	mv := approximateVariation(lat, lon)
	lg.Warnf("using regional magnetic variation approximation %+.2f at %.3f, %.3f; verify with the NOAA calculator",
		mv.Degrees, lat, lon)
	return mv
}

const noaaDeclinationURL = "https://www.ngdc.noaa.gov/geomag-web/calculators/calculateDeclination"

// Public API key from the NOAA documentation.
const noaaAPIKey = "zNEw7"

const noaaTimeout = 5 * time.Second

// fetchNOAADeclination queries the NOAA WMM calculator, retrying once after
// a short pause; the API is flaky under load but usually answers the second
// try.
func fetchNOAADeclination(ctx context.Context, lat, lon float32) (float32, error) {
	now := time.Now()
	params := url.Values{
		"lat1":         {fmt.Sprintf("%.4f", lat)},
		"lon1":         {fmt.Sprintf("%.4f", lon)},
		"model":        {"WMM"},
		"startYear":    {strconv.Itoa(now.Year())},
		"startMonth":   {strconv.Itoa(int(now.Month()))},
		"startDay":     {strconv.Itoa(now.Day())},
		"resultFormat": {"json"},
		"key":          {noaaAPIKey},
	}
	requestUrl := noaaDeclinationURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
		decl, err := getDeclination(ctx, requestUrl)
		if err == nil {
			return decl, nil
		}
		lastErr = err
	}
	return 0, lastErr
}

func getDeclination(ctx context.Context, requestUrl string) (float32, error) {
	ctx, cancel := context.WithTimeout(ctx, noaaTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", requestUrl, nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s", resp.Status)
	}

	var result struct {
		Result []struct {
			Declination float32 `json:"declination"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	if len(result.Result) == 0 {
		return 0, fmt.Errorf("no declination in response")
	}
	return result.Result[0].Declination, nil
}

// approximateVariation estimates CONUS magnetic variation from
// longitude-banded linear fits of 2025 NOAA charts plus a latitude
// adjustment, clamped to the plausible CONUS range. Good to a few degrees.
func approximateVariation(lat, lon float32) MagVar {
	var v float32
	switch {
	case lon > -75: // far East Coast, steepest gradient
		v = -18 + (lon+75)*0.6
	case lon > -95: // eastern and central US
		v = -8 + (lon+95)*0.3
	case lon > -115: // mountain states, crossing the agonic line
		v = 2 + (lon+115)*0.4
	default: // western US
		v = 12 + (lon+130)*0.3
	}
	v += (lat - 40) * 0.2

	return MagVar{Degrees: math.Clamp(v, -25, 20), Source: MagVarApproximate}
}
