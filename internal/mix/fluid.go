// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mix

import (
	"fmt"

	"github.com/pdiddy/nutrilabel/internal/validate"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// ApplyFluidLoss removes fluidLossPct percent of rawMass as evaporated
// moisture and renormalizes the absolute nutrient totals to 100 g of what
// remains. The percentage must be in [0, 100).
func ApplyFluidLoss(rawMass float64, rawTotals types.Vector, fluidLossPct float64) (float64, types.Vector, error) {
	if err := validate.Var(fluidLossPct, "gte=0,lt=100"); err != nil {
		return 0, nil, fmt.Errorf("%w: fluid loss must be in [0, 100), got %g", types.ErrInvalidLossPercentage, fluidLossPct)
	}
	finalMass := rawMass * (1 - fluidLossPct/100)
	out := make(types.Vector, len(rawTotals))
	for k, v := range rawTotals {
		if finalMass > 0 {
			out[k] = v / finalMass * 100
		} else {
			out[k] = 0
		}
	}
	return finalMass, out, nil
}

// Cook applies fluid loss to mix totals.
func Cook(t Totals, fluidLossPct float64) (Totals, types.Vector, error) {
	mass, per100, err := ApplyFluidLoss(t.Mass, t.Nutrients, fluidLossPct)
	if err != nil {
		return Totals{}, nil, err
	}
	return Totals{Mass: mass, Nutrients: t.Nutrients}, per100, nil
}
