// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quantity implements precision-preserving arithmetic on stored
// nutrient literals and the unit-to-gram scaling factor.
//
// Significant figures are counted on the decimal literal a value was
// recorded with, not on its binary magnitude, so "24" and "24.0" carry
// different precision. A literal equal to zero carries none.
package quantity

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// SignificantFigures counts the significant digits of a decimal literal.
// The sign and decimal point are ignored and leading zeros stripped; every
// remaining digit counts, trailing zeros included. Exponential notation
// counts the mantissa only. Zero literals ("0", "0.0") yield 0.
func SignificantFigures(literal string) int {
	s := strings.ToLower(strings.TrimSpace(literal))
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return SignificantFigures(s[:i])
	}
	s = strings.NewReplacer("-", "", "+", "", ".", "").Replace(s)
	return len(strings.TrimLeft(s, "0"))
}

// RoundToSignificantFigures rounds x to n significant digits. Zero stays
// zero. NaN, infinite input and non-positive n return x unrounded.
func RoundToSignificantFigures(x float64, n int) float64 {
	if x == 0 || n <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'e', n-1, 64), 64)
	if err != nil || math.IsInf(r, 0) {
		return x
	}
	return r
}

// ScalePreservingPrecision multiplies the value of original by factor and
// rounds the product to the significant figures of original. Absent,
// non-numeric and zero literals yield 0.
func ScalePreservingPrecision(original string, factor float64) float64 {
	v, ok := types.ParseDecimal(original)
	if !ok || v == 0 {
		return 0
	}
	figs := SignificantFigures(original)
	if figs == 0 {
		return 0
	}
	return RoundToSignificantFigures(v*factor, figs)
}
