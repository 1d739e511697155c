// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package calc resolves catalog references into plain values and runs the
// nutrition engine over them: portion scaling, food comparison, daily
// totals, recipe and mix computation, and front-of-pack labels.
package calc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/pdiddy/nutrilabel/internal/label"
	"github.com/pdiddy/nutrilabel/internal/mix"
	"github.com/pdiddy/nutrilabel/internal/quantity"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// Catalog is the reference data the calculator reads. *catalog.Store
// satisfies it.
type Catalog interface {
	GetFoodItem(ctx context.Context, code string) (types.FoodItem, error)
	GetRetentionProfile(ctx context.Context, code string) (*types.RetentionProfile, error)
	GetRecipe(ctx context.Context, code string) (types.Recipe, error)
}

// Calculator runs engine operations against a catalog.
type Calculator struct {
	cat Catalog
	log *zap.Logger
}

// New returns a Calculator. A nil logger discards output.
func New(cat Catalog, log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{cat: cat, log: log}
}

// Portion is a food scaled to a serving.
type Portion struct {
	Food   types.FoodSummary `json:"food" yaml:"food"`
	Amount float64           `json:"amount" yaml:"amount"`
	Unit   types.Unit        `json:"unit" yaml:"unit"`
	Grams  float64           `json:"grams" yaml:"grams"`

	// Nutrients are absolute amounts in the serving, rounded to the
	// precision of the stored values.
	Nutrients types.Vector `json:"nutrients" yaml:"nutrients"`
}

// ScaleComposition scales every present nutrient of c by factor, keeping
// the significant figures of each stored literal. Absent and non-numeric
// values stay absent.
func ScaleComposition(c types.Composition, factor float64) types.Vector {
	out := make(types.Vector, len(c))
	for k := range c {
		if _, ok := c.Lookup(k); !ok {
			continue
		}
		out[k] = quantity.ScalePreservingPrecision(c.Literal(k), factor)
	}
	return out
}

// Portion scales the food with the given code to amount of unitRef. The
// unit is matched by code or name; an empty reference means grams.
func (c *Calculator) Portion(ctx context.Context, code string, amount float64, unitRef string) (Portion, error) {
	food, err := c.cat.GetFoodItem(ctx, code)
	if err != nil {
		return Portion{}, err
	}
	return portion(food, amount, unitRef)
}

func portion(food types.FoodItem, amount float64, unitRef string) (Portion, error) {
	unit, ok := food.Unit(unitRef)
	if !ok {
		return Portion{}, fmt.Errorf("unit %q for food %s: %w", unitRef, food.Code, types.ErrNotFound)
	}
	factor, err := quantity.GramFactor(amount, unit.Grams)
	if err != nil {
		return Portion{}, fmt.Errorf("food %s: %w", food.Code, err)
	}
	return Portion{
		Food:      food.Summary(),
		Amount:    amount,
		Unit:      unit,
		Grams:     amount * unit.Grams,
		Nutrients: ScaleComposition(food.Nutrients, factor),
	}, nil
}

// Compare scales each food to the same gram amount. When sortBy is set,
// results are ordered by that nutrient, highest first, with foods lacking
// it last; otherwise the input order is kept.
func (c *Calculator) Compare(ctx context.Context, codes []string, grams float64, sortBy types.Nutrient) ([]Portion, error) {
	if sortBy != "" && !sortBy.Known() {
		return nil, fmt.Errorf("sort by %q: %w", sortBy, types.ErrUnknownNutrient)
	}
	out := make([]Portion, 0, len(codes))
	for _, code := range codes {
		p, err := c.Portion(ctx, code, grams, types.GramUnit.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if sortBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			vi, iok := out[i].Nutrients.Lookup(sortBy)
			vj, jok := out[j].Nutrients.Lookup(sortBy)
			if iok != jok {
				return iok
			}
			return vi > vj
		})
	}
	return out, nil
}

// DailyEntry is one food eaten during a day.
type DailyEntry struct {
	Code   string  `json:"code" yaml:"code" validate:"required"`
	Amount float64 `json:"amount" yaml:"amount" validate:"gt=0"`
	Unit   string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Daily is the sum of a day's portions.
type Daily struct {
	Entries []Portion    `json:"entries" yaml:"entries"`
	Totals  types.Vector `json:"totals" yaml:"totals"`
}

// DailyTotals scales every entry and sums the portions. A nutrient is in
// the totals if any entry reports it.
func (c *Calculator) DailyTotals(ctx context.Context, entries []DailyEntry) (Daily, error) {
	d := Daily{Entries: make([]Portion, 0, len(entries)), Totals: types.Vector{}}
	for _, e := range entries {
		p, err := c.Portion(ctx, e.Code, e.Amount, e.Unit)
		if err != nil {
			return Daily{}, err
		}
		for k, v := range p.Nutrients {
			d.Totals[k] += v
		}
		d.Entries = append(d.Entries, p)
	}
	return d, nil
}

// ComponentSummary describes one resolved component of a result.
type ComponentSummary struct {
	Code      string  `json:"code" yaml:"code"`
	Name      string  `json:"name" yaml:"name"`
	Grams     float64 `json:"grams" yaml:"grams"`
	LossPct   float64 `json:"loss_pct,omitempty" yaml:"loss_pct,omitempty"`
	Retention string  `json:"retention,omitempty" yaml:"retention,omitempty"`
	OilCode   string  `json:"oil_code,omitempty" yaml:"oil_code,omitempty"`
	OilGrams  float64 `json:"oil_grams,omitempty" yaml:"oil_grams,omitempty"`
}

// Result is a finished recipe or mix.
type Result struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Liquid bool   `json:"liquid" yaml:"liquid"`

	// RawMass includes absorbed oil; FinalMass is what remains after
	// fluid loss.
	RawMass      float64 `json:"raw_mass" yaml:"raw_mass"`
	FluidLossPct float64 `json:"fluid_loss_pct" yaml:"fluid_loss_pct"`
	FinalMass    float64 `json:"final_mass" yaml:"final_mass"`

	Components []ComponentSummary `json:"components" yaml:"components"`
	Per100     types.Vector       `json:"per_100" yaml:"per_100"`
	Tags       []label.Tag        `json:"tags" yaml:"tags"`
}

// Recipe computes a stored recipe: its components are resolved against
// the catalog, aggregated, and renormalized for the recipe's fluid loss.
// The recipe name is taken from the food with the same code when there is
// one.
func (c *Calculator) Recipe(ctx context.Context, code string, liquid bool) (Result, error) {
	r, err := c.cat.GetRecipe(ctx, code)
	if err != nil {
		return Result{}, err
	}

	m := types.Mix{Name: code}
	if food, err := c.cat.GetFoodItem(ctx, code); err == nil {
		m.Name = food.Name
	} else if !errors.Is(err, types.ErrNotFound) {
		return Result{}, err
	}

	for i, row := range r.Rows {
		comp, err := c.resolve(ctx, row)
		if err != nil {
			return Result{}, fmt.Errorf("recipe %s component %d: %w", code, i+1, err)
		}
		m.Components = append(m.Components, comp)
	}

	c.log.Debug("computing recipe",
		zap.String("code", code),
		zap.Int("components", len(m.Components)),
		zap.Float64("fluid_loss_pct", r.FluidLossPct),
	)
	return Evaluate(m, r.FluidLossPct, liquid)
}

func (c *Calculator) resolve(ctx context.Context, row types.RecipeRow) (types.RecipeComponent, error) {
	food, err := c.cat.GetFoodItem(ctx, row.IngredientCode)
	if err != nil {
		return types.RecipeComponent{}, err
	}
	comp := types.RecipeComponent{Food: food, Grams: row.Grams, LossPct: row.LossPct}
	if row.RetentionCode != "" {
		if comp.Retention, err = c.cat.GetRetentionProfile(ctx, row.RetentionCode); err != nil {
			return types.RecipeComponent{}, err
		}
	}
	if row.OilCode != "" {
		oil, err := c.cat.GetFoodItem(ctx, row.OilCode)
		if err != nil {
			return types.RecipeComponent{}, fmt.Errorf("oil: %w", err)
		}
		comp.Oil = &types.OilAbsorption{Oil: oil, Pct: row.OilPct}
	}
	return comp, nil
}

// Evaluate aggregates a resolved mix, applies fluid loss and classifies
// the finished vector.
func Evaluate(m types.Mix, fluidLossPct float64, liquid bool) (Result, error) {
	if err := mix.Validate(m); err != nil {
		return Result{}, err
	}
	totals := mix.Sum(m)
	cooked, per100, err := mix.Cook(totals, fluidLossPct)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Name:         m.Name,
		Liquid:       liquid,
		RawMass:      totals.Mass,
		FluidLossPct: fluidLossPct,
		FinalMass:    cooked.Mass,
		Components:   make([]ComponentSummary, 0, len(m.Components)),
		Per100:       per100,
		Tags:         Label(per100, liquid),
	}
	for _, comp := range m.Components {
		cs := ComponentSummary{
			Code:     comp.Food.Code,
			Name:     comp.Food.Name,
			Grams:    comp.Grams,
			LossPct:  comp.LossPct,
			OilGrams: comp.OilGrams(),
		}
		if comp.Retention != nil {
			cs.Retention = comp.Retention.Code
		}
		if comp.Oil != nil {
			cs.OilCode = comp.Oil.Oil.Code
		}
		res.Components = append(res.Components, cs)
	}
	return res, nil
}

// Label classifies a finished per-100 vector.
func Label(per100 types.Vector, liquid bool) []label.Tag {
	return label.Classify(per100, liquid)
}
