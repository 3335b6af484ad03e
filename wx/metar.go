// wx/metar.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package wx fetches current weather observations from the Aviation Weather
// Center for use in performance briefings.
package wx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmp/perfbrief/math"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// This is as much of the METAR as a briefing needs at runtime.
type METAR struct {
	ICAO        string `json:"icaoId"`
	Name        string `json:"name"`
	Time        time.Time
	Temperature float32 `json:"temp"`  // in Celsius
	Dewpoint    float32 `json:"dewp"`  // in Celsius
	Altimeter   float32 `json:"altim"` // hPa or inHg; see Altimeter_inHg
	WindDir     *int    `json:"-"`     // nil for variable winds, otherwise heading 0-360
	WindSpeed   int     `json:"wspd"`
	WindGust    *int    `json:"wgst"`
	Raw         string  `json:"rawOb"`
	Latitude    float32 `json:"lat"`
	Longitude   float32 `json:"lon"`

	// WindDirRaw and ReportTime are used for JSON unmarshaling only
	WindDirRaw any    `json:"wdir"` // nil or string "VRB" for variable, else number for heading
	ReportTime string `json:"reportTime"`

	// Present in the data but not currently used
	//Elevation int `json:"elev"` // station elevation in meters
	//Visib string `json:"visib"`
}

// Altimeter_inHg returns the altimeter setting in inches of mercury. The API
// reports hectopascals for most stations but inches for some; anything over
// 100 can only be hPa.
func (m METAR) Altimeter_inHg() float32 {
	if m.Altimeter > 100 {
		return math.RoundTo(0.02953*m.Altimeter, 0.01)
	}
	return m.Altimeter
}

// UnmarshalJSON handles converting WindDirRaw to WindDir
func (m *METAR) UnmarshalJSON(data []byte) error {
	type Alias METAR
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(m),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	// Convert WindDirRaw to WindDir
	switch v := m.WindDirRaw.(type) {
	case nil:
		m.WindDir = nil
	case string:
		if v == "VRB" {
			m.WindDir = nil
		} else {
			return fmt.Errorf("unexpected wind direction string %q", v)
		}
	case float64:
		if v < 0 || v > 360 {
			return fmt.Errorf("wind direction out of range: %f", v)
		}
		dir := int(v)
		m.WindDir = &dir
	default:
		return fmt.Errorf("unexpected wind direction type %T: %v", m.WindDirRaw, m.WindDirRaw)
	}

	// Parse time
	var err error
	m.Time, err = parseMETARTime(m.ReportTime)

	return err
}

func parseMETARTime(s string) (time.Time, error) {
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05.999Z", s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}

// GustKt returns the gust speed, zero if no gusts were reported.
func (m METAR) GustKt() int {
	if m.WindGust == nil {
		return 0
	}
	return *m.WindGust
}

// WindString formats the wind for display: "270° at 12 kt gusting 18",
// "Variable at 5 kt", "Calm".
func (m METAR) WindString() string {
	if m.WindDir == nil && m.WindSpeed == 0 {
		return "Calm"
	}
	var s string
	if m.WindDir == nil {
		s = fmt.Sprintf("Variable at %d kt", m.WindSpeed)
	} else {
		s = fmt.Sprintf("%03d° at %d kt", *m.WindDir, m.WindSpeed)
	}
	if g := m.GustKt(); g > 0 {
		s += fmt.Sprintf(" gusting %d", g)
	}
	return s
}

// IsVMC returns true if Visual Meteorological Conditions apply
// VMC requires >= 3 miles visibility and >= 1000' ceiling AGL
func (m METAR) IsVMC() bool {
	// >= 3 miles visibility
	vis, err := m.Visibility()
	if err != nil || vis < 3 {
		return false
	}

	// >= 1000' ceiling AGL
	ceil, err := m.Ceiling()
	return err == nil && ceil >= 1000
}

// Visibility extracts visibility in statute miles from the raw METAR
func (m METAR) Visibility() (float32, error) {
	for _, f := range strings.Fields(m.Raw) {
		if strings.HasSuffix(f, "SM") {
			f = strings.TrimSuffix(f, "SM")
			f = strings.TrimPrefix(f, "M") // there if 1/4 or less

			// Handle fractional visibility like 1/4SM
			if snum, sdenom, ok := strings.Cut(f, "/"); ok {
				if num, err := strconv.Atoi(snum); err != nil {
					return -1, err
				} else if denom, err := strconv.Atoi(sdenom); err != nil {
					return -1, err
				} else {
					return float32(num) / float32(denom), nil
				}
			} else if vis, err := strconv.Atoi(f); err != nil {
				return -1, err
			} else {
				return float32(vis), nil
			}
		}
	}
	return -1, fmt.Errorf("%s: no visibility found", m.Raw)
}

// Ceiling returns ceiling in feet AGL (above ground level)
func (m METAR) Ceiling() (int, error) {
	for _, f := range strings.Fields(m.Raw) {
		// BKN (broken) or OVC (overcast) constitute a ceiling
		if strings.HasPrefix(f, "BKN") || strings.HasPrefix(f, "OVC") {
			if len(f) < 6 {
				return 0, fmt.Errorf("%s: too short", f)
			}

			// Cloud height is in hundreds of feet
			if alt, err := strconv.Atoi(f[3:6]); err == nil {
				alt *= 100
				return alt, nil
			} else {
				return -1, err
			}
		}
	}
	// No ceiling means unlimited (typically reported as 12000')
	return 12000, nil
}

///////////////////////////////////////////////////////////////////////////
// Fetching

const aviationWeatherCenterDataApi = `https://aviationweather.gov/api/data/metar?ids=%s&format=json`

const fetchTimeout = 10 * time.Second

// MaxMETARAge is how old an observation can be before it is rejected;
// regular METARs come hourly, so 70 minutes allows one missed cycle.
const MaxMETARAge = 70 * time.Minute

// ErrStaleMETAR indicates the station's last report is too old to brief
// from; the caller should fall back to manually-entered weather.
var ErrStaleMETAR = errors.New("stale METAR")

// metarCache absorbs repeat lookups within a session; TTL is well under
// MaxMETARAge so a cached report can't go stale unnoticed.
var metarCache = expirable.NewLRU[string, METAR](64, nil, 10*time.Minute)

// FetchMETAR returns the current observation for an airport, checked for
// staleness.
func FetchMETAR(ctx context.Context, icao string) (*METAR, error) {
	icao = strings.ToUpper(icao)
	if m, ok := metarCache.Get(icao); ok {
		return &m, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	requestUrl := fmt.Sprintf(aviationWeatherCenterDataApi, url.QueryEscape(icao))
	req, err := http.NewRequestWithContext(ctx, "GET", requestUrl, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", requestUrl, resp.Status)
	}

	var metars []METAR
	if err := json.NewDecoder(resp.Body).Decode(&metars); err != nil {
		return nil, err
	}
	if len(metars) == 0 {
		return nil, fmt.Errorf("%s: no METAR reported", icao)
	}

	m := metars[0]
	if err := checkAge(icao, &m, time.Now()); err != nil {
		return nil, err
	}

	metarCache.Add(icao, m)
	return &m, nil
}

// checkAge rejects observations older than MaxMETARAge.
func checkAge(icao string, m *METAR, now time.Time) error {
	if age := now.Sub(m.Time); age > MaxMETARAge {
		return fmt.Errorf("%s: %w: observation is %s old", icao, ErrStaleMETAR,
			age.Round(time.Minute))
	}
	return nil
}
