// perf/interp_test.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import (
	"errors"
	"testing"
)

// grid builds a gradient-shaped table directly; cells must be given in
// ascending temperature order, rows in ascending altitude order, matching
// the invariants LoadTableSet establishes.
func grid(roundTo float32, rows ...Row[Scalar]) Table[Scalar] {
	return Table[Scalar]{Name: "test", RoundTo: roundTo, Rows: rows}
}

func row(paFt float32, cells ...Cell[Scalar]) Row[Scalar] {
	return Row[Scalar]{PressureAltitudeFt: paFt, Cells: cells}
}

func cell(tempC float32, v Scalar) Cell[Scalar] {
	return Cell[Scalar]{TempC: tempC, Value: v}
}

func TestInterpolateBilinear(t *testing.T) {
	tab := grid(1,
		row(0, cell(0, 100), cell(20, 200)),
		row(2000, cell(0, 300), cell(20, 400)))

	for _, tc := range []struct {
		paFt, tempC float32
		want        Scalar
	}{
		{0, 0, 100}, // corners
		{0, 20, 200},
		{2000, 0, 300},
		{2000, 20, 400},
		{0, 10, 150}, // temperature edge midpoints
		{2000, 10, 350},
		{1000, 0, 200}, // altitude edge midpoints
		{1000, 20, 300},
		{1000, 10, 250}, // center
		{500, 5, 175},   // quarter point
	} {
		got, err := tab.Interpolate(tc.paFt, tc.tempC)
		if err != nil {
			t.Errorf("(%v, %v): unexpected error %v", tc.paFt, tc.tempC, err)
		} else if got != tc.want {
			t.Errorf("(%v, %v): got %v, expected %v", tc.paFt, tc.tempC, got, tc.want)
		}
	}
}

func TestInterpolateOutOfRange(t *testing.T) {
	tab := grid(1,
		row(0, cell(0, 100), cell(20, 200)),
		row(2000, cell(0, 300), cell(20, 400)))

	for _, tc := range []struct {
		paFt, tempC float32
		axis        string
	}{
		{-1, 10, AxisPressureAltitude},
		{2001, 10, AxisPressureAltitude},
		{1000, -0.5, AxisTemperature},
		{1000, 20.5, AxisTemperature},
	} {
		_, err := tab.Interpolate(tc.paFt, tc.tempC)
		var oor OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("(%v, %v): expected OutOfRangeError, got %v", tc.paFt, tc.tempC, err)
			continue
		}
		if oor.Axis != tc.axis || oor.Table != "test" {
			t.Errorf("(%v, %v): got error %+v, expected axis %q", tc.paFt, tc.tempC, oor, tc.axis)
		}
	}

	if _, err := (&Table[Scalar]{Name: "empty"}).Interpolate(0, 0); err == nil {
		t.Errorf("empty table: expected error")
	}
}

// Rows may cover different temperature spans (the ISA anchor lands at a
// different temperature in every row); each bracketing row is interpolated
// within its own span, and a query outside either row's span fails even if
// the other row covers it.
func TestInterpolatePerRowSpans(t *testing.T) {
	tab := grid(1,
		row(0, cell(10, 100), cell(30, 300)),
		row(1000, cell(0, 0), cell(40, 400)))

	got, err := tab.Interpolate(500, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 200 { // both rows give 200 at 20C
		t.Errorf("got %v, expected 200", got)
	}

	_, err = tab.Interpolate(500, 5) // row at PA 0 only covers [10, 30]
	var oor OutOfRangeError
	if !errors.As(err, &oor) || oor.Axis != AxisTemperature {
		t.Errorf("expected temperature range error, got %v", err)
	}
	if oor.Min != 10 || oor.Max != 30 {
		t.Errorf("error should report the failing row's span, got [%v, %v]", oor.Min, oor.Max)
	}
}

func TestInterpolateRounding(t *testing.T) {
	tab := grid(50,
		row(0, cell(0, 1117), cell(10, 1158)))

	// Rounding applies to exact cell hits too, once, at the end.
	if got, _ := tab.Interpolate(0, 0); got != 1100 {
		t.Errorf("exact hit: got %v, expected 1100", got)
	}
	if got, _ := tab.Interpolate(0, 5); got != 1150 { // 1137.5 rounds up
		t.Errorf("midpoint: got %v, expected 1150", got)
	}
}

// Every charted cell must come back exactly (after the table's rounding)
// when queried at its own coordinates; any interpolation error at a sample
// point would corrupt the numbers pilots compare against the POH.
func checkExactCells[V interface {
	Value[V]
	comparable
}](t *testing.T, tab *Table[V]) {
	t.Helper()
	for _, r := range tab.Rows {
		for _, c := range r.Cells {
			got, err := tab.Interpolate(r.PressureAltitudeFt, c.TempC)
			if err != nil {
				t.Errorf("%s (%v, %v): unexpected error %v", tab.Name, r.PressureAltitudeFt, c.TempC, err)
			} else if want := c.Value.Round(tab.RoundTo); got != want {
				t.Errorf("%s (%v, %v): got %+v, expected %+v", tab.Name, r.PressureAltitudeFt, c.TempC, got, want)
			}
		}
	}
}

func TestInterpolateExactCells(t *testing.T) {
	ts := SR22T()
	checkExactCells(t, &ts.TakeoffDistance)
	checkExactCells(t, &ts.LandingDistance)
	checkExactCells(t, &ts.TakeoffClimbGradient91.Table)
	checkExactCells(t, &ts.EnrouteClimbGradient120.Table)
}

// Interpolate is a pure function; repeating a query gives the same answer.
func TestInterpolateRepeatable(t *testing.T) {
	ts := SR22T()
	first, err := ts.TakeoffDistance.Interpolate(1500, 12.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ts.TakeoffDistance.Interpolate(1500, 12.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("repeated query disagrees: %+v then %+v", first, second)
	}
}

func TestInterpolateSR22T(t *testing.T) {
	ts := SR22T()

	t.Run("takeoff", func(t *testing.T) {
		for _, tc := range []struct {
			paFt, tempC float32
			want        Distances
		}{
			{0, 0, Distances{1350, 1850}},      // exact corner, rounded
			{0, 50, Distances{1950, 2650}},     // temperature edge
			{10000, 50, Distances{3800, 4900}}, // far corner
			{1000, 10, Distances{1550, 2150}},  // exact grid point
		} {
			got, err := ts.TakeoffDistance.Interpolate(tc.paFt, tc.tempC)
			if err != nil {
				t.Errorf("(%v, %v): unexpected error %v", tc.paFt, tc.tempC, err)
			} else if got != tc.want {
				t.Errorf("(%v, %v): got %+v, expected %+v", tc.paFt, tc.tempC, got, tc.want)
			}
		}
	})

	t.Run("landing", func(t *testing.T) {
		for _, tc := range []struct {
			paFt, tempC float32
			want        Distances
		}{
			{0, 0, Distances{1100, 2450}},
			{0, 5, Distances{1150, 2500}},   // temperature midpoint
			{500, 0, Distances{1150, 2500}}, // altitude midpoint
			{10000, 50, Distances{1900, 3700}},
		} {
			got, err := ts.LandingDistance.Interpolate(tc.paFt, tc.tempC)
			if err != nil {
				t.Errorf("(%v, %v): unexpected error %v", tc.paFt, tc.tempC, err)
			} else if got != tc.want {
				t.Errorf("(%v, %v): got %+v, expected %+v", tc.paFt, tc.tempC, got, tc.want)
			}
		}
	})

	t.Run("gradients", func(t *testing.T) {
		// The ISA anchor in the sea level row sits at exactly 15C.
		if got, err := ts.TakeoffClimbGradient91.Interpolate(0, 15); err != nil || got != 780 {
			t.Errorf("g91 at ISA sea level: got %v, %v; expected 780", got, err)
		}
		// And at -5C in the 10000 ft row.
		if got, err := ts.EnrouteClimbGradient120.Interpolate(10000, -5); err != nil || got != 470 {
			t.Errorf("g120 at ISA 10000: got %v, %v; expected 470", got, err)
		}
		// Altitude interpolation between charted rows.
		if got, err := ts.TakeoffClimbGradient91.Interpolate(1000, 0); err != nil || got != 850 {
			t.Errorf("g91 at 1000/0: got %v, %v; expected 850", got, err)
		}
		if got, err := ts.TakeoffClimbGradient91.Interpolate(0, -20); err != nil || got != 1020 {
			t.Errorf("g91 at 0/-20: got %v, %v; expected 1020", got, err)
		}
	})

	t.Run("range errors", func(t *testing.T) {
		if _, err := ts.TakeoffDistance.Interpolate(-10, 20); err == nil {
			t.Errorf("below charted altitudes: expected error")
		}
		if _, err := ts.TakeoffDistance.Interpolate(12000, 20); err == nil {
			t.Errorf("above charted altitudes: expected error")
		}
		var oor OutOfRangeError
		if _, err := ts.LandingDistance.Interpolate(0, -1); !errors.As(err, &oor) {
			t.Errorf("below charted temperatures: expected OutOfRangeError, got %v", err)
		} else if oor.Min != 0 || oor.Max != 50 {
			t.Errorf("temperature span: got [%v, %v], expected [0, 50]", oor.Min, oor.Max)
		}
		if _, err := ts.LandingDistance.Interpolate(0, 51); err == nil {
			t.Errorf("above charted temperatures: expected error")
		}
	})
}
