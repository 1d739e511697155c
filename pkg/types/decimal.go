// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalPattern matches plain decimal literals with an optional exponent.
// Hex floats, underscores, NaN and Inf are not measurements.
var decimalPattern = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// ParseDecimal parses a stored nutrient literal. It reports false for
// anything other than a finite plain decimal number.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
