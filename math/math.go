// math/math.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float32) float32 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float32) float32 {
	return d / 180 * gomath.Pi
}

// A few wrappers around transcendentals in the math package follow; since
// we mostly use float32, it's handy to be able to call these directly
// rather than with all of the casts that are required when using the math
// package.

func Sin(a float32) float32 {
	return float32(gomath.Sin(float64(a)))
}

func Cos(a float32) float32 {
	return float32(gomath.Cos(float64(a)))
}

func Mod(a, b float32) float32 {
	return float32(gomath.Mod(float64(a), float64(b)))
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Lerp(x, a, b float32) float32 {
	return (1-x)*a + x*b
}

// RoundTo rounds v to the nearest multiple of unit; ties round away from
// zero.
func RoundTo(v, unit float32) float32 {
	return unit * float32(gomath.Round(float64(v/unit)))
}
