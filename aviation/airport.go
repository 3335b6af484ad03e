// aviation/airport.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package aviation resolves airports and runways from the OurAirports
// database and handles the true-to-magnetic heading conversion that the
// wind calculations depend on.
package aviation

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/mmp/perfbrief/log"
	"github.com/mmp/perfbrief/math"
	"github.com/mmp/perfbrief/util"
)

// Airport is the subset of the OurAirports record a briefing needs, with
// every runway end expanded into its own Runway.
type Airport struct {
	ICAO        string
	Name        string
	ElevationFt int
	Location    math.Point2LL
	Runways     []Runway
}

// Runway is one landing direction. OurAirports headings are degrees TRUE;
// MagneticHeading stays zero until ApplyMagneticVariation fills it in.
// METAR winds are magnetic, so comparing them against TrueHeading would
// silently skew every wind component.
type Runway struct {
	Id              string
	TrueHeading     float32
	MagneticHeading float32
	LengthFt        int
	Surface         string
}

// ApplyMagneticVariation derives each runway's magnetic heading from its
// true heading; variation is in degrees, positive east.
func (ap *Airport) ApplyMagneticVariation(variationDeg float32) {
	for i := range ap.Runways {
		ap.Runways[i].MagneticHeading =
			math.NormalizeHeading(ap.Runways[i].TrueHeading - variationDeg)
	}
}

// NormalizeRunwayId canonicalizes a runway designator for matching:
// uppercased, "RUNWAY"/"RWY"/"RW" prefixes dropped, single-digit numbers
// zero-padded. "rw9" and "09" both come out "09".
func NormalizeRunwayId(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, prefix := range []string{"RUNWAY", "RWY", "RW"} {
		if t, ok := strings.CutPrefix(s, prefix); ok {
			s = strings.TrimSpace(t)
			break
		}
	}
	if len(s) > 0 && s[0] >= '1' && s[0] <= '9' && (len(s) == 1 || s[1] < '0' || s[1] > '9') {
		s = "0" + s
	}
	return s
}

// Runway finds a runway end by designator; the error for an unknown
// designator reports what the airport does have.
func (ap *Airport) Runway(id string) (*Runway, error) {
	want := NormalizeRunwayId(id)
	for i := range ap.Runways {
		if NormalizeRunwayId(ap.Runways[i].Id) == want {
			return &ap.Runways[i], nil
		}
	}
	valid := util.MapSlice(ap.Runways, func(r Runway) string { return r.Id })
	return nil, fmt.Errorf("%s: unknown runway at %s; airport has %s", id, ap.ICAO,
		strings.Join(valid, ", "))
}

// BestRunway returns the runway end most nearly aligned with the given wind
// direction (degrees magnetic), for advisory output. ApplyMagneticVariation
// must have been called first.
func (ap *Airport) BestRunway(windDirDeg float32) *Runway {
	minDelta := float32(1000)
	best := -1
	for i, rwy := range ap.Runways {
		if d := math.HeadingDifference(windDirDeg, rwy.MagneticHeading); d < minDelta {
			minDelta = d
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	return &ap.Runways[best]
}

///////////////////////////////////////////////////////////////////////////
// OurAirports database

const ourAirportsBaseURL = "https://davidmegginson.github.io/ourairports-data/"

const dataRefreshInterval = 24 * time.Hour
const downloadTimeout = time.Minute

// FetchAirport looks up an airport and its runways. Both the parsed record
// and the underlying CSVs are cached on disk for a day; headings in the
// returned Airport are true until ApplyMagneticVariation is called.
func FetchAirport(ctx context.Context, icao string, lg *log.Logger) (*Airport, error) {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	objPath := "airports/" + icao + ".msgpack"

	var cached Airport
	if mod, err := util.CacheRetrieveObject(objPath, &cached); err == nil &&
		time.Since(mod) < dataRefreshInterval {
		lg.Debugf("%s: using cached airport record from %v", icao, mod)
		return &cached, nil
	}

	airportsCSV, err := fetchDataFile(ctx, "airports.csv", lg)
	if err != nil {
		return nil, err
	}
	ap, err := parseAirport(airportsCSV, icao)
	if err != nil {
		return nil, err
	}

	runwaysCSV, err := fetchDataFile(ctx, "runways.csv", lg)
	if err != nil {
		return nil, err
	}
	if ap.Runways, err = parseRunways(runwaysCSV, icao); err != nil {
		return nil, err
	}
	if len(ap.Runways) == 0 {
		return nil, fmt.Errorf("%s: no usable runways found", icao)
	}

	if err := util.CacheStoreObject(objPath, ap); err != nil {
		lg.Warnf("%s: unable to cache: %v", objPath, err)
	}
	return ap, nil
}

// fetchDataFile returns the named OurAirports CSV, preferring the local
// zstd-compressed copy when it is under a day old. A failed download falls
// back to a stale cached copy rather than failing the lookup.
func fetchDataFile(ctx context.Context, name string, lg *log.Logger) ([]byte, error) {
	cachePath := "ourairports/" + name + ".zst"
	cached, mod, cerr := util.CacheRetrieveBytes(cachePath)
	if cerr == nil && time.Since(mod) < dataRefreshInterval {
		return cached, nil
	}

	b, err := downloadDataFile(ctx, name)
	if err != nil {
		if cerr == nil {
			lg.Warnf("%s: download failed (%v); using cached copy from %v", name, err, mod)
			return cached, nil
		}
		return nil, err
	}

	if err := util.CacheStoreBytes(cachePath, b); err != nil {
		lg.Warnf("%s: unable to cache: %v", cachePath, err)
	}
	return b, nil
}

func downloadDataFile(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	url := ourAirportsBaseURL + name
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// mungeCSV breaks each record of a CSV file into the requested fields and
// calls the provided callback for each one. Since the files come over the
// network, malformed CSV is an error rather than a panic.
func mungeCSV(filename string, r io.Reader, fields []string, callback func([]string)) error {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	// Find the index of each field the caller requested
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%s: error parsing CSV file: %w", filename, err)
	}
	var fieldIndices []int
	for _, f := range fields {
		idx := slices.IndexFunc(header, func(h string) bool { return f == strings.TrimSpace(h) })
		if idx == -1 {
			return fmt.Errorf("%s: did not find requested field header %q", filename, f)
		}
		fieldIndices = append(fieldIndices, idx)
	}

	var strs []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("%s: error parsing CSV file: %w", filename, err)
		}
		for _, i := range fieldIndices {
			strs = append(strs, record[i])
		}
		callback(strs)
		strs = strs[:0]
	}
}

func parseAirport(csvData []byte, icao string) (*Airport, error) {
	var ap *Airport
	err := mungeCSV("airports.csv", bytes.NewReader(csvData),
		[]string{"ident", "name", "latitude_deg", "longitude_deg", "elevation_ft", "type"},
		func(s []string) {
			if ap != nil || s[0] != icao || s[5] == "closed" {
				return
			}

			atof := func(s string) float64 {
				v, _ := util.Atof(s)
				return v
			}
			elevation := float64(0)
			if s[4] != "" && s[4] != "NA" {
				elevation = atof(s[4])
			}

			ap = &Airport{
				ICAO:        icao,
				Name:        s[1],
				ElevationFt: int(elevation),
				Location:    math.Point2LL{float32(atof(s[3])), float32(atof(s[2]))},
			}
		})
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, fmt.Errorf("%s: airport not found", icao)
	}
	return ap, nil
}

// parseRunways expands both ends of every open runway at the airport. A
// missing heading on one end is derived from the other; a runway with no
// headings at all (common for heliports) is skipped.
func parseRunways(csvData []byte, icao string) ([]Runway, error) {
	var runways []Runway
	err := mungeCSV("runways.csv", bytes.NewReader(csvData),
		[]string{"airport_ident", "length_ft", "surface", "closed", "le_ident",
			"le_heading_degT", "he_ident", "he_heading_degT"},
		func(s []string) {
			if s[0] != icao || s[3] == "1" {
				return
			}

			length := 0
			if v, err := util.Atof(s[1]); err == nil {
				length = int(v)
			}

			leHdg, leErr := util.Atof(s[5])
			heHdg, heErr := util.Atof(s[7])
			if leErr != nil && heErr == nil {
				leHdg, leErr = float64(math.OppositeHeading(float32(heHdg))), nil
			} else if heErr != nil && leErr == nil {
				heHdg, heErr = float64(math.OppositeHeading(float32(leHdg))), nil
			}

			if s[4] != "" && leErr == nil {
				runways = append(runways, Runway{
					Id:          s[4],
					TrueHeading: float32(leHdg),
					LengthFt:    length,
					Surface:     s[2],
				})
			}
			if s[6] != "" && heErr == nil {
				runways = append(runways, Runway{
					Id:          s[6],
					TrueHeading: float32(heHdg),
					LengthFt:    length,
					Surface:     s[2],
				})
			}
		})
	return runways, err
}
