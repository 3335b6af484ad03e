// perf/interp.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import "fmt"

// Axis names used in OutOfRangeError.
const (
	AxisPressureAltitude = "pressure altitude"
	AxisTemperature      = "temperature"
)

// OutOfRangeError reports a query that falls strictly outside the span the
// table covers, either in pressure altitude or in the temperatures available
// at a bracketing altitude row. Extrapolating beyond the POH data would
// invent a performance number no one ever measured, so it is an error for
// the caller to handle, never a clamp.
type OutOfRangeError struct {
	Table    string
	Axis     string
	Value    float32
	Min, Max float32
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s %v outside table range [%v, %v]", e.Table, e.Axis, e.Value, e.Min, e.Max)
}

// Interpolate returns the table's value at the given pressure altitude and
// temperature, bilinearly interpolated: temperature is interpolated first
// within each bracketing altitude row, then the two per-row results are
// interpolated across altitude. The order matters; rows with an ISA anchor
// place their temperature samples at different points, so the grid is not
// rectangular and the two orders do not commute.
//
// Equality with a table edge clamps to that row/cell; only a query strictly
// outside the covered span fails. The final value is rounded to the table's
// RoundTo unit. Pure function; safe for concurrent use on the immutable
// tables.
func (t *Table[V]) Interpolate(paFt, tempC float32) (V, error) {
	var zero V
	n := len(t.Rows)
	if n == 0 {
		return zero, MalformedTableError{Detail: t.Name + ": no rows"}
	}

	if min, max := t.Rows[0].PressureAltitudeFt, t.Rows[n-1].PressureAltitudeFt; paFt < min || paFt > max {
		return zero, OutOfRangeError{Table: t.Name, Axis: AxisPressureAltitude, Value: paFt, Min: min, Max: max}
	}

	// lo is the last row at or below the query; hi brackets from above
	// unless the query sits exactly on a row (or on the table's edge).
	lo := 0
	for i := 1; i < n; i++ {
		if t.Rows[i].PressureAltitudeFt <= paFt {
			lo = i
		} else {
			break
		}
	}
	hi := lo
	if t.Rows[lo].PressureAltitudeFt < paFt {
		hi = lo + 1
	}

	vlo, err := t.Rows[lo].valueAt(t.Name, tempC)
	if err != nil {
		return zero, err
	}
	if hi == lo {
		return vlo.Round(t.RoundTo), nil
	}

	vhi, err := t.Rows[hi].valueAt(t.Name, tempC)
	if err != nil {
		return zero, err
	}

	x := (paFt - t.Rows[lo].PressureAltitudeFt) /
		(t.Rows[hi].PressureAltitudeFt - t.Rows[lo].PressureAltitudeFt)
	return vlo.Lerp(x, vhi).Round(t.RoundTo), nil
}

// valueAt interpolates across the row's temperature samples; same bracketing
// rules as the altitude axis, using this row's own temperature span.
func (r Row[V]) valueAt(table string, tempC float32) (V, error) {
	var zero V
	n := len(r.Cells)
	if n == 0 {
		return zero, MalformedTableError{Detail: table + ": row has no temperature samples"}
	}

	if min, max := r.Cells[0].TempC, r.Cells[n-1].TempC; tempC < min || tempC > max {
		return zero, OutOfRangeError{Table: table, Axis: AxisTemperature, Value: tempC, Min: min, Max: max}
	}

	lo := 0
	for i := 1; i < n; i++ {
		if r.Cells[i].TempC <= tempC {
			lo = i
		} else {
			break
		}
	}
	if r.Cells[lo].TempC == tempC {
		return r.Cells[lo].Value, nil
	}

	hi := lo + 1
	x := (tempC - r.Cells[lo].TempC) / (r.Cells[hi].TempC - r.Cells[lo].TempC)
	return r.Cells[lo].Value.Lerp(x, r.Cells[hi].Value), nil
}
