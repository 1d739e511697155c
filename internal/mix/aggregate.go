// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mix combines resolved recipe components into one nutrient vector
// per 100 g/ml of the finished product, and renormalizes a cooked recipe
// for the fluid it lost.
package mix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/nutrilabel/internal/validate"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// Totals holds absolute nutrient amounts for a whole mix and the mass they
// are spread over.
type Totals struct {
	// Mass is the component masses plus absorbed oil, in grams.
	Mass float64 `json:"mass" yaml:"mass"`

	// Nutrients are absolute amounts in the whole mix, not per 100 g.
	Nutrients types.Vector `json:"nutrients" yaml:"nutrients"`
}

// Per100 normalizes the totals to 100 g of the mix. A zero mass resolves
// every present nutrient to zero.
func (t Totals) Per100() types.Vector {
	out := make(types.Vector, len(t.Nutrients))
	for k, v := range t.Nutrients {
		if t.Mass == 0 {
			out[k] = 0
			continue
		}
		out[k] = v * (100 / t.Mass)
	}
	return out
}

// Sum accumulates the absolute nutrient amounts of every component.
//
// Each component contributes value * grams/100 * (1 - loss/100) * retention,
// where retention applies only to the retained vitamin and mineral subset.
// Absorbed oil contributes its own per-100 g values scaled by the oil mass
// and is not subject to the component's loss or retention.
//
// A nutrient appears in the result only if some component or oil reports
// it.
func Sum(m types.Mix) Totals {
	totals := Totals{Mass: m.TotalMass(), Nutrients: types.Vector{}}
	for _, c := range m.Components {
		itemFactor := c.Grams / 100
		lossFactor := 1 - c.LossPct/100
		for k := range c.Food.Nutrients {
			v, ok := c.Food.Nutrients.Lookup(k)
			if !ok {
				continue
			}
			totals.Nutrients[k] += v * itemFactor * lossFactor * c.Retention.Multiplier(k)
		}
		if c.Oil == nil {
			continue
		}
		oilFactor := c.OilGrams() / 100
		for k := range c.Oil.Oil.Nutrients {
			v, ok := c.Oil.Oil.Nutrients.Lookup(k)
			if !ok {
				continue
			}
			totals.Nutrients[k] += v * oilFactor
		}
	}
	return totals
}

// Aggregate returns the per-100 g vector of the finished mix.
func Aggregate(m types.Mix) types.Vector {
	return Sum(m).Per100()
}

// Validate checks component masses and percentages. Percentage failures
// wrap types.ErrInvalidLossPercentage; mass failures wrap
// types.ErrInvalidQuantity.
func Validate(m types.Mix) error {
	return Violations(validate.Struct(m))
}

// Violations maps struct validation failures from any input describing a
// mix to the engine's sentinels: fields named *Pct and retention factors
// become types.ErrInvalidLossPercentage, everything else
// types.ErrInvalidQuantity. Other errors pass through.
func Violations(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validate.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		sentinel := types.ErrInvalidQuantity
		if isPercentField(fe) {
			sentinel = types.ErrInvalidLossPercentage
		}
		errs = append(errs, fmt.Errorf("%w: %s", sentinel, fe.Message))
	}
	return errors.Join(errs...)
}

func isPercentField(fe validate.FieldError) bool {
	return strings.HasSuffix(fe.Field, "Pct") || strings.Contains(fe.Namespace, "factors")
}
