// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quantity

import (
	"fmt"
	"math"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// GramFactor converts amount units weighing unitGrams each into the
// multiplier applied to per-100 g values: (amount * unitGrams) / 100.
// Both must be finite and positive.
func GramFactor(amount, unitGrams float64) (float64, error) {
	if !finitePositive(amount) {
		return 0, fmt.Errorf("%w: amount must be > 0, got %g", types.ErrInvalidQuantity, amount)
	}
	if !finitePositive(unitGrams) {
		return 0, fmt.Errorf("%w: unit weight must be > 0 g, got %g", types.ErrInvalidQuantity, unitGrams)
	}
	return amount * unitGrams / 100, nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
