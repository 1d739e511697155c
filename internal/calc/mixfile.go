// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package calc

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nutrilabel/internal/mix"
	"github.com/pdiddy/nutrilabel/internal/validate"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// MixFile describes a hand-assembled mix by catalog references:
//
//	name: breaded schnitzel
//	fluid_loss_pct: 15
//	components:
//	  - food: "100"
//	    grams: 150
//	    retention: "5001"
//	    oil: {food: "82108000", pct: 10}
//	  - food: "200"
//	    amount: 2
//	    unit: tablespoon
type MixFile struct {
	Name         string     `json:"name,omitempty" yaml:"name,omitempty"`
	Liquid       bool       `json:"liquid,omitempty" yaml:"liquid,omitempty"`
	FluidLossPct float64    `json:"fluid_loss_pct,omitempty" yaml:"fluid_loss_pct,omitempty" validate:"gte=0,lt=100"`
	Components   []MixEntry `json:"components" yaml:"components" validate:"required,min=1,dive"`
}

// MixEntry is one component of a MixFile. The mass is grams, or amount
// of unit when amount is set.
type MixEntry struct {
	Food      string    `json:"food" yaml:"food" validate:"required"`
	Grams     float64   `json:"grams,omitempty" yaml:"grams,omitempty" validate:"gte=0"`
	Amount    float64   `json:"amount,omitempty" yaml:"amount,omitempty" validate:"gte=0"`
	Unit      string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	LossPct   float64   `json:"loss_pct,omitempty" yaml:"loss_pct,omitempty" validate:"gte=0,lte=100"`
	Retention string    `json:"retention,omitempty" yaml:"retention,omitempty"`
	Oil       *OilEntry `json:"oil,omitempty" yaml:"oil,omitempty"`
}

// OilEntry references the oil a component absorbs while frying.
type OilEntry struct {
	Food string  `json:"food" yaml:"food" validate:"required"`
	Pct  float64 `json:"pct" yaml:"pct" validate:"gte=0,lte=100"`
}

// ReadMixFile loads a mix description from a YAML file.
func ReadMixFile(path string) (*MixFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mix file: %w", err)
	}
	var mf MixFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing mix file: %w", err)
	}
	return &mf, nil
}

// WriteMixFile saves a mix description as YAML.
func WriteMixFile(path string, mf *MixFile) error {
	data, err := yaml.Marshal(mf)
	if err != nil {
		return fmt.Errorf("marshaling mix file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// RecipeMixFile describes a stored recipe as an editable mix file. Mix on
// the result computes the same values as Recipe.
func (c *Calculator) RecipeMixFile(ctx context.Context, code string, liquid bool) (*MixFile, error) {
	r, err := c.cat.GetRecipe(ctx, code)
	if err != nil {
		return nil, err
	}
	mf := &MixFile{Name: code, Liquid: liquid, FluidLossPct: r.FluidLossPct}
	if food, err := c.cat.GetFoodItem(ctx, code); err == nil {
		mf.Name = food.Name
	} else if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	for _, row := range r.Rows {
		e := MixEntry{Food: row.IngredientCode, Grams: row.Grams, LossPct: row.LossPct, Retention: row.RetentionCode}
		if row.OilCode != "" {
			e.Oil = &OilEntry{Food: row.OilCode, Pct: row.OilPct}
		}
		mf.Components = append(mf.Components, e)
	}
	return mf, nil
}

// Mix resolves a mix description against the catalog and computes it the
// same way as a stored recipe.
func (c *Calculator) Mix(ctx context.Context, mf MixFile) (Result, error) {
	if err := mix.Violations(validate.Struct(mf)); err != nil {
		return Result{}, err
	}

	m := types.Mix{Name: mf.Name}
	for i, e := range mf.Components {
		comp, err := c.resolveEntry(ctx, e)
		if err != nil {
			return Result{}, fmt.Errorf("component %d: %w", i+1, err)
		}
		m.Components = append(m.Components, comp)
	}

	c.log.Debug("computing mix",
		zap.String("name", mf.Name),
		zap.Int("components", len(m.Components)),
		zap.Float64("fluid_loss_pct", mf.FluidLossPct),
	)
	return Evaluate(m, mf.FluidLossPct, mf.Liquid)
}

func (c *Calculator) resolveEntry(ctx context.Context, e MixEntry) (types.RecipeComponent, error) {
	food, err := c.cat.GetFoodItem(ctx, e.Food)
	if err != nil {
		return types.RecipeComponent{}, err
	}

	grams := e.Grams
	if e.Amount > 0 {
		unit, ok := food.Unit(e.Unit)
		if !ok {
			return types.RecipeComponent{}, fmt.Errorf("unit %q for food %s: %w", e.Unit, food.Code, types.ErrNotFound)
		}
		grams = e.Amount * unit.Grams
	}

	comp := types.RecipeComponent{Food: food, Grams: grams, LossPct: e.LossPct}
	if e.Retention != "" {
		if comp.Retention, err = c.cat.GetRetentionProfile(ctx, e.Retention); err != nil {
			return types.RecipeComponent{}, err
		}
	}
	if e.Oil != nil {
		oil, err := c.cat.GetFoodItem(ctx, e.Oil.Food)
		if err != nil {
			return types.RecipeComponent{}, fmt.Errorf("oil: %w", err)
		}
		comp.Oil = &types.OilAbsorption{Oil: oil, Pct: e.Oil.Pct}
	}
	return comp, nil
}
