// perf/table.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package perf holds the SR22T POH performance dataset and the bilinear
// interpolation engine that derives takeoff/landing distances and climb
// gradients from it, plus the closed-form atmospheric and wind calculators
// that feed it.
package perf

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/mmp/perfbrief/math"
	"github.com/mmp/perfbrief/util"

	"github.com/iancoleman/orderedmap"
)

// Rounding units applied to interpolated results; these live with the table
// so that callers never re-round mid-calculation.
const (
	DistanceRoundFt   = 50
	GradientRoundFtNM = 10
)

// MalformedTableError indicates that a performance table is structurally
// unusable: unparsable temperature labels, missing fields, duplicate rows,
// and the like. Loading fails fast on it; silently skipping bad cells could
// under-report a performance hazard.
type MalformedTableError struct {
	Detail string
}

func (e MalformedTableError) Error() string {
	return "malformed performance table: " + e.Detail
}

// Value is the contract interpolation needs from a table cell: blend with a
// second value of the same shape and round to a unit. Scalar and Distances
// implement it.
type Value[V any] interface {
	Lerp(x float32, other V) V
	Round(unit float32) V
}

// Scalar is a single-valued cell, used for the climb gradient tables
// (ft/NM).
type Scalar float32

func (s Scalar) Lerp(x float32, other Scalar) Scalar {
	return Scalar(math.Lerp(x, float32(s), float32(other)))
}

func (s Scalar) Round(unit float32) Scalar {
	return Scalar(math.RoundTo(float32(s), unit))
}

// Distances is the cell shape of the takeoff and landing distance tables.
type Distances struct {
	GroundRollFt    float32
	TotalDistanceFt float32
}

func (d Distances) Lerp(x float32, other Distances) Distances {
	return Distances{
		GroundRollFt:    math.Lerp(x, d.GroundRollFt, other.GroundRollFt),
		TotalDistanceFt: math.Lerp(x, d.TotalDistanceFt, other.TotalDistanceFt),
	}
}

func (d Distances) Round(unit float32) Distances {
	return Distances{
		GroundRollFt:    math.RoundTo(d.GroundRollFt, unit),
		TotalDistanceFt: math.RoundTo(d.TotalDistanceFt, unit),
	}
}

// Cell is one temperature sample within a pressure-altitude row. ISA records
// that TempC came from a "temp_isa" label and was resolved against the row's
// altitude when the table was loaded; after that it is an ordinary sample.
type Cell[V Value[V]] struct {
	TempC float32
	ISA   bool
	Value V
}

// Row holds the temperature samples for one pressure altitude, sorted
// ascending by TempC with no duplicates.
type Row[V Value[V]] struct {
	PressureAltitudeFt float32
	WeightLb           int
	Cells              []Cell[V]
}

// Table is an immutable performance chart: rows sorted ascending by pressure
// altitude, no duplicates, every row non-empty. RoundTo is the table's single
// declared rounding unit, applied once to the final interpolated value.
type Table[V Value[V]] struct {
	Name    string
	RoundTo float32
	Rows    []Row[V]
}

// GradientTable is a climb gradient chart together with the indicated
// airspeed it was flown at.
type GradientTable struct {
	Table[Scalar]
	ClimbSpeedKIAS int
}

// Metadata describes the provenance of an embedded dataset.
type Metadata struct {
	AircraftModel string `json:"aircraft_model"`
	WeightLb      int    `json:"weight_lb"`
	DataSource    string `json:"data_source"`
	DataVersion   string `json:"data_version"`
	Notes         string `json:"notes"`
}

// TableSet is a complete aircraft dataset: the four POH charts plus the
// V-speed schedule.
type TableSet struct {
	Metadata                Metadata
	VSpeeds                 VSpeedData
	TakeoffDistance         Table[Distances]
	LandingDistance         Table[Distances]
	TakeoffClimbGradient91  GradientTable
	EnrouteClimbGradient120 GradientTable
}

///////////////////////////////////////////////////////////////////////////
// Loading

type datasetJSON struct {
	Metadata    Metadata        `json:"metadata"`
	VSpeeds     VSpeedData      `json:"v_speeds"`
	Performance performanceJSON `json:"performance_data"`
}

type performanceJSON struct {
	LandingDistance tableJSON `json:"landing_distance"`
	TakeoffDistance tableJSON `json:"takeoff_distance"`
	TakeoffClimb91  tableJSON `json:"takeoff_climb_gradient_91"`
	EnrouteClimb120 tableJSON `json:"enroute_climb_gradient_120"`
}

type tableJSON struct {
	ClimbSpeedKIAS int             `json:"climb_speed_kias"`
	WeightLb       int             `json:"weight_lb"`
	Conditions     []conditionJSON `json:"conditions"`
}

// conditionJSON is one pressure-altitude row as it appears in the dataset.
// The performance object is parsed order-preserving so that validation
// errors come out in file order.
type conditionJSON struct {
	WeightLb           int                   `json:"weight_lb"`
	PressureAltitudeFt float32               `json:"pressure_altitude_ft"`
	Performance        orderedmap.OrderedMap `json:"performance"`
}

// LoadTableSet parses and validates a JSON performance dataset. All
// validation errors are gathered into a single MalformedTableError rather
// than stopping at the first.
func LoadTableSet(b []byte) (*TableSet, error) {
	// A duplicated temperature label would silently shadow a column, so
	// check for duplicate keys before the regular decode discards them.
	if dups := util.FindDuplicateJSONKeys(b); len(dups) > 0 {
		d := util.MapSlice(dups, func(d util.DuplicateJSONKey) string {
			return d.Path + ": duplicate key " + strconv.Quote(d.Key)
		})
		return nil, MalformedTableError{Detail: strings.Join(d, "\n")}
	}

	var ds datasetJSON
	if err := util.UnmarshalJSONBytes(b, &ds); err != nil {
		return nil, MalformedTableError{Detail: err.Error()}
	}

	var e util.ErrorLogger
	ts := &TableSet{
		Metadata: ds.Metadata,
		VSpeeds:  ds.VSpeeds,
	}
	ts.VSpeeds.validate(&e)
	ts.TakeoffDistance = makeDistanceTable("takeoff_distance", ds.Performance.TakeoffDistance, &e)
	ts.LandingDistance = makeDistanceTable("landing_distance", ds.Performance.LandingDistance, &e)
	ts.TakeoffClimbGradient91 = makeGradientTable("takeoff_climb_gradient_91", ds.Performance.TakeoffClimb91, &e)
	ts.EnrouteClimbGradient120 = makeGradientTable("enroute_climb_gradient_120", ds.Performance.EnrouteClimb120, &e)

	if e.HaveErrors() {
		return nil, MalformedTableError{Detail: e.String()}
	}
	return ts, nil
}

// parseTempLabel decodes a temperature column label: "temp_<N>c",
// "temp_minus<N>c", or the sentinel "temp_isa", optionally suffixed
// "_ft_per_nm" in the gradient tables. The ISA sentinel is reported via isa;
// the caller resolves it against the row's own pressure altitude.
func parseTempLabel(label string) (tempC float32, isa bool, err error) {
	s, _ := strings.CutSuffix(label, "_ft_per_nm")
	s, ok := strings.CutPrefix(s, "temp_")
	if !ok {
		return 0, false, fmt.Errorf("%q: unparsable temperature label", label)
	}
	if s == "isa" {
		return 0, true, nil
	}

	s, neg := strings.CutPrefix(s, "minus")
	s, ok = strings.CutSuffix(s, "c")
	if !ok || s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		return 0, false, fmt.Errorf("%q: unparsable temperature label", label)
	}

	n, _ := strconv.Atoi(s)
	if neg {
		n = -n
	}
	return float32(n), false, nil
}

func makeDistanceTable(name string, tj tableJSON, e *util.ErrorLogger) Table[Distances] {
	defer e.CheckDepth(e.CurrentDepth())
	e.Push(name)
	defer e.Pop()

	t := Table[Distances]{Name: name, RoundTo: DistanceRoundFt}
	for _, cond := range tj.Conditions {
		e.Push("pressure_altitude_ft " + strconv.Itoa(int(cond.PressureAltitudeFt)))

		row := Row[Distances]{
			PressureAltitudeFt: cond.PressureAltitudeFt,
			WeightLb:           cond.WeightLb,
		}
		for _, label := range cond.Performance.Keys() {
			v, _ := cond.Performance.Get(label)
			cm, ok := v.(orderedmap.OrderedMap)
			if !ok {
				e.ErrorString("%s: expected an object with ground_roll_ft and total_distance_ft", label)
				continue
			}
			row.Cells = append(row.Cells, makeCell(label, row.PressureAltitudeFt, distanceCell(cm, e), e))
		}
		finishRow(&row, e)
		t.Rows = append(t.Rows, row)

		e.Pop()
	}
	finishTable(&t, tj.Conditions, e)
	return t
}

func makeGradientTable(name string, tj tableJSON, e *util.ErrorLogger) GradientTable {
	defer e.CheckDepth(e.CurrentDepth())
	e.Push(name)
	defer e.Pop()

	t := Table[Scalar]{Name: name, RoundTo: GradientRoundFtNM}
	for _, cond := range tj.Conditions {
		e.Push("pressure_altitude_ft " + strconv.Itoa(int(cond.PressureAltitudeFt)))

		row := Row[Scalar]{
			PressureAltitudeFt: cond.PressureAltitudeFt,
			WeightLb:           tj.WeightLb,
		}
		for _, label := range cond.Performance.Keys() {
			v, _ := cond.Performance.Get(label)
			n, ok := v.(float64)
			if !ok {
				e.ErrorString("%s: expected a numeric gradient, got %T", label, v)
				continue
			}
			row.Cells = append(row.Cells, makeCell(label, row.PressureAltitudeFt, Scalar(n), e))
		}
		finishRow(&row, e)
		t.Rows = append(t.Rows, row)

		e.Pop()
	}
	finishTable(&t, tj.Conditions, e)

	if tj.ClimbSpeedKIAS <= 0 {
		e.ErrorString("%s: missing climb_speed_kias", name)
	}
	return GradientTable{Table: t, ClimbSpeedKIAS: tj.ClimbSpeedKIAS}
}

func distanceCell(m orderedmap.OrderedMap, e *util.ErrorLogger) Distances {
	num := func(field string) float32 {
		v, ok := m.Get(field)
		if !ok {
			e.ErrorString("%s: missing field", field)
			return 0
		}
		n, ok := v.(float64)
		if !ok {
			e.ErrorString("%s: expected a number, got %T", field, v)
			return 0
		}
		return float32(n)
	}

	d := Distances{GroundRollFt: num("ground_roll_ft"), TotalDistanceFt: num("total_distance_ft")}
	for _, k := range m.Keys() {
		if k != "ground_roll_ft" && k != "total_distance_ft" {
			e.ErrorString("%s: unexpected field", k)
		}
	}
	return d
}

// makeCell parses the temperature label and resolves the ISA sentinel
// against the row's pressure altitude, so no label parsing remains on the
// query path.
func makeCell[V Value[V]](label string, rowPA float32, v V, e *util.ErrorLogger) Cell[V] {
	tempC, isa, err := parseTempLabel(label)
	if err != nil {
		e.Error(err)
		return Cell[V]{Value: v}
	}
	if isa {
		tempC = ISATemp(rowPA)
	}
	return Cell[V]{TempC: tempC, ISA: isa, Value: v}
}

func finishRow[V Value[V]](row *Row[V], e *util.ErrorLogger) {
	if len(row.Cells) == 0 {
		e.ErrorString("no temperature samples")
		return
	}

	slices.SortFunc(row.Cells, func(a, b Cell[V]) int { return cmp.Compare(a.TempC, b.TempC) })
	for i := 1; i < len(row.Cells); i++ {
		if row.Cells[i].TempC == row.Cells[i-1].TempC {
			e.ErrorString("temperature %v appears twice", row.Cells[i].TempC)
		}
	}
}

func finishTable[V Value[V]](t *Table[V], conds []conditionJSON, e *util.ErrorLogger) {
	if len(t.Rows) == 0 {
		e.ErrorString("no conditions")
		return
	}

	slices.SortFunc(t.Rows, func(a, b Row[V]) int {
		return cmp.Compare(a.PressureAltitudeFt, b.PressureAltitudeFt)
	})
	for i := 1; i < len(t.Rows); i++ {
		if t.Rows[i].PressureAltitudeFt == t.Rows[i-1].PressureAltitudeFt {
			e.ErrorString("duplicate pressure altitude %v", t.Rows[i].PressureAltitudeFt)
		}
	}

	// Every row must offer the same temperature columns. (The resolved ISA
	// temperatures still differ per row; it is the label sets that must
	// match.)
	ref := labelSet(conds[0])
	for _, cond := range conds[1:] {
		if !maps.Equal(labelSet(cond), ref) {
			e.ErrorString("pressure_altitude_ft %d: temperature labels differ from first row",
				int(cond.PressureAltitudeFt))
		}
	}
}

func labelSet(cond conditionJSON) map[string]bool {
	m := make(map[string]bool)
	for _, k := range cond.Performance.Keys() {
		m[k] = true
	}
	return m
}
