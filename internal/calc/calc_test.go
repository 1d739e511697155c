// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package calc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/nutrilabel/internal/label"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// --- fake catalog ---

type fakeCatalog struct {
	foods      map[string]types.FoodItem
	retentions map[string]*types.RetentionProfile
	recipes    map[string]types.Recipe
}

func (f *fakeCatalog) GetFoodItem(_ context.Context, code string) (types.FoodItem, error) {
	item, ok := f.foods[code]
	if !ok {
		return types.FoodItem{}, fmt.Errorf("food %s: %w", code, types.ErrNotFound)
	}
	return item, nil
}

func (f *fakeCatalog) GetRetentionProfile(_ context.Context, code string) (*types.RetentionProfile, error) {
	p, ok := f.retentions[code]
	if !ok {
		return nil, fmt.Errorf("retention profile %s: %w", code, types.ErrNotFound)
	}
	return p, nil
}

func (f *fakeCatalog) GetRecipe(_ context.Context, code string) (types.Recipe, error) {
	r, ok := f.recipes[code]
	if !ok {
		return types.Recipe{}, fmt.Errorf("recipe %s: %w", code, types.ErrNotFound)
	}
	return r, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		foods: map[string]types.FoodItem{
			"100": {Code: "100", Name: "Chicken breast", Nutrients: types.Composition{
				types.Protein: "20.0", types.TotalFat: "2.0", types.Sodium: "70", types.VitaminC: "10",
			}, Units: []types.Unit{{Code: "7", Name: "cup", Grams: 140}}},
			"200": {Code: "200", Name: "Lentils", Nutrients: types.Composition{
				types.Protein: "24", types.Sodium: "6", types.TotalDietaryFiber: "10.7",
			}},
			"300": {Code: "300", Name: "Brine", Nutrients: types.Composition{
				types.Sodium: "1200", types.TotalSugars: "2",
			}},
			"82108000": {Code: "82108000", Name: "Soy oil", Nutrients: types.Composition{
				types.TotalFat: "100", types.SaturatedFat: "15.0",
			}},
			"9000": {Code: "9000", Name: "Schnitzel"},
		},
		retentions: map[string]*types.RetentionProfile{
			"5001": {Code: "5001", Name: "Fried", Factors: map[types.Nutrient]float64{types.VitaminC: 50}},
		},
		recipes: map[string]types.Recipe{
			"9000": {Code: "9000", FluidLossPct: 20, Rows: []types.RecipeRow{
				{IngredientCode: "100", Grams: 150, RetentionCode: "5001", OilCode: "82108000", OilPct: 10},
				{IngredientCode: "200", Grams: 50},
			}},
			"9001": {Code: "9001", Rows: []types.RecipeRow{{IngredientCode: "missing", Grams: 10}}},
		},
	}
}

func testCalc() *Calculator {
	return New(testCatalog(), zap.NewNop())
}

// --- Portion ---

func TestPortionByUnitName(t *testing.T) {
	p, err := testCalc().Portion(context.Background(), "100", 1, "cup")
	require.NoError(t, err)

	assert.Equal(t, 140.0, p.Grams)
	assert.Equal(t, "7", p.Unit.Code)
	assert.Equal(t, "Chicken breast", p.Food.Name)
	assert.InDelta(t, 28.0, p.Nutrients[types.Protein], 1e-9)
	assert.InDelta(t, 2.8, p.Nutrients[types.TotalFat], 1e-9)
	assert.InDelta(t, 98, p.Nutrients[types.Sodium], 1e-9)
	assert.InDelta(t, 14, p.Nutrients[types.VitaminC], 1e-9)
	_, has := p.Nutrients[types.TotalDietaryFiber]
	assert.False(t, has)
}

func TestPortionGrams(t *testing.T) {
	for _, unit := range []string{"", "g", "gram", "grams"} {
		t.Run(unit, func(t *testing.T) {
			p, err := testCalc().Portion(context.Background(), "200", 150, unit)
			require.NoError(t, err)
			assert.Equal(t, 150.0, p.Grams)
			assert.InDelta(t, 36, p.Nutrients[types.Protein], 1e-9)
			assert.InDelta(t, 9, p.Nutrients[types.Sodium], 1e-9)
		})
	}
}

func TestPortionSkipsNonFiniteLiterals(t *testing.T) {
	food := types.FoodItem{Code: "1", Name: "bad row", Nutrients: types.Composition{
		types.Sodium: "NaN", types.Protein: "Inf", types.TotalFat: "0x1p-2", types.Iron: "2.5",
	}}
	p, err := portion(food, 200, "g")
	require.NoError(t, err)
	assert.Equal(t, types.Vector{types.Iron: 5}, p.Nutrients)

	_, err = json.Marshal(p)
	assert.NoError(t, err)
}

func TestPortionErrors(t *testing.T) {
	ctx := context.Background()
	c := testCalc()

	_, err := c.Portion(ctx, "100", 1, "bucket")
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = c.Portion(ctx, "100", 0, "g")
	assert.True(t, errors.Is(err, types.ErrInvalidQuantity))

	_, err = c.Portion(ctx, "nope", 1, "g")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestScaleComposition(t *testing.T) {
	got := ScaleComposition(types.Composition{
		types.Protein:  "24",
		types.Sodium:   "0",
		types.Iron:     "n/a",
		types.TotalFat: "",
	}, 1.5)
	assert.Equal(t, types.Vector{types.Protein: 36, types.Sodium: 0}, got)
}

// --- Compare ---

func TestCompareSorted(t *testing.T) {
	got, err := testCalc().Compare(context.Background(), []string{"100", "300", "200"}, 100, types.Protein)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "200", got[0].Food.Code)
	assert.Equal(t, "100", got[1].Food.Code)
	assert.Equal(t, "300", got[2].Food.Code, "foods without the nutrient sort last")
}

func TestCompareKeepsOrder(t *testing.T) {
	got, err := testCalc().Compare(context.Background(), []string{"300", "100"}, 50, "")
	require.NoError(t, err)
	assert.Equal(t, "300", got[0].Food.Code)
	assert.InDelta(t, 600, got[0].Nutrients[types.Sodium], 1e-9)
}

func TestCompareUnknownSort(t *testing.T) {
	_, err := testCalc().Compare(context.Background(), []string{"100"}, 100, "umami")
	assert.True(t, errors.Is(err, types.ErrUnknownNutrient))
}

// --- DailyTotals ---

func TestDailyTotals(t *testing.T) {
	d, err := testCalc().DailyTotals(context.Background(), []DailyEntry{
		{Code: "100", Amount: 100},
		{Code: "200", Amount: 50, Unit: "g"},
	})
	require.NoError(t, err)
	require.Len(t, d.Entries, 2)
	assert.InDelta(t, 32, d.Totals[types.Protein], 1e-9)
	assert.InDelta(t, 73, d.Totals[types.Sodium], 1e-9)
	assert.InDelta(t, 5.35, d.Totals[types.TotalDietaryFiber], 1e-9)
	assert.InDelta(t, 10, d.Totals[types.VitaminC], 1e-9)
	_, has := d.Totals[types.SaturatedFat]
	assert.False(t, has)
}

func TestDailyTotalsEmpty(t *testing.T) {
	d, err := testCalc().DailyTotals(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, d.Totals)
}

// --- Recipe ---

func TestRecipe(t *testing.T) {
	res, err := testCalc().Recipe(context.Background(), "9000", false)
	require.NoError(t, err)

	assert.Equal(t, "Schnitzel", res.Name)
	assert.InDelta(t, 215, res.RawMass, 1e-9)
	assert.InDelta(t, 172, res.FinalMass, 1e-9)
	require.Len(t, res.Components, 2)
	assert.Equal(t, "5001", res.Components[0].Retention)
	assert.Equal(t, "82108000", res.Components[0].OilCode)
	assert.InDelta(t, 15, res.Components[0].OilGrams, 1e-9)

	per := func(total float64) float64 { return total / 172 * 100 }
	assert.InDelta(t, per(42), res.Per100[types.Protein], 1e-9)
	assert.InDelta(t, per(18), res.Per100[types.TotalFat], 1e-9)
	assert.InDelta(t, per(108), res.Per100[types.Sodium], 1e-9)
	assert.InDelta(t, per(7.5), res.Per100[types.VitaminC], 1e-9)
	assert.InDelta(t, per(2.25), res.Per100[types.SaturatedFat], 1e-9)
	assert.InDelta(t, per(5.35), res.Per100[types.TotalDietaryFiber], 1e-9)
	assert.Len(t, res.Per100, 6)

	assert.NotNil(t, res.Tags)
	assert.Empty(t, res.Tags)
}

func TestRecipeMissingIngredient(t *testing.T) {
	_, err := testCalc().Recipe(context.Background(), "9001", false)
	assert.True(t, errors.Is(err, types.ErrNotFound))
	assert.Contains(t, err.Error(), "component 1")
}

func TestRecipeNotFound(t *testing.T) {
	_, err := testCalc().Recipe(context.Background(), "404", false)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestRecipeNameFallsBackToCode(t *testing.T) {
	cat := testCatalog()
	delete(cat.foods, "9000")
	res, err := New(cat, nil).Recipe(context.Background(), "9000", false)
	require.NoError(t, err)
	assert.Equal(t, "9000", res.Name)
}

// --- Mix ---

func TestMixHighSodium(t *testing.T) {
	res, err := testCalc().Mix(context.Background(), MixFile{
		Name: "brined chicken",
		Components: []MixEntry{
			{Food: "300", Grams: 100},
			{Food: "100", Amount: 1, Unit: "cup"},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 240, res.RawMass, 1e-9)
	assert.InDelta(t, 1298/2.4, res.Per100[types.Sodium], 1e-9)
	assert.Equal(t, []label.Tag{label.HighSodium}, res.Tags)
	assert.Equal(t, "brined chicken", res.Name)
}

func TestMixLiquidThresholds(t *testing.T) {
	// 350 mg sodium per 100 ml is over the liquid limit only.
	cat := testCatalog()
	cat.foods["400"] = types.FoodItem{Code: "400", Name: "Broth", Nutrients: types.Composition{types.Sodium: "350"}}
	c := New(cat, nil)

	solid, err := c.Mix(context.Background(), MixFile{Components: []MixEntry{{Food: "400", Grams: 100}}})
	require.NoError(t, err)
	assert.Empty(t, solid.Tags)

	liquid, err := c.Mix(context.Background(), MixFile{Liquid: true, Components: []MixEntry{{Food: "400", Grams: 100}}})
	require.NoError(t, err)
	assert.Equal(t, []label.Tag{label.HighSodium}, liquid.Tags)
}

func TestMixValidation(t *testing.T) {
	tests := []struct {
		name string
		mf   MixFile
		want error
	}{
		{"no components", MixFile{}, types.ErrInvalidQuantity},
		{"negative grams", MixFile{Components: []MixEntry{{Food: "100", Grams: -5}}}, types.ErrInvalidQuantity},
		{"loss over 100", MixFile{Components: []MixEntry{{Food: "100", Grams: 5, LossPct: 120}}}, types.ErrInvalidLossPercentage},
		{"fluid loss 100", MixFile{FluidLossPct: 100, Components: []MixEntry{{Food: "100", Grams: 5}}}, types.ErrInvalidLossPercentage},
		{"oil pct", MixFile{Components: []MixEntry{{Food: "100", Grams: 5, Oil: &OilEntry{Food: "82108000", Pct: 101}}}}, types.ErrInvalidLossPercentage},
		{"unknown food", MixFile{Components: []MixEntry{{Food: "nope", Grams: 5}}}, types.ErrNotFound},
		{"unknown unit", MixFile{Components: []MixEntry{{Food: "100", Amount: 2, Unit: "bucket"}}}, types.ErrNotFound},
		{"unknown retention", MixFile{Components: []MixEntry{{Food: "100", Grams: 5, Retention: "x"}}}, types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testCalc().Mix(context.Background(), tt.mf)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMixMatchesRecipe(t *testing.T) {
	ctx := context.Background()
	c := testCalc()

	stored, err := c.Recipe(ctx, "9000", false)
	require.NoError(t, err)

	adhoc, err := c.Mix(ctx, MixFile{
		FluidLossPct: 20,
		Components: []MixEntry{
			{Food: "100", Grams: 150, Retention: "5001", Oil: &OilEntry{Food: "82108000", Pct: 10}},
			{Food: "200", Grams: 50},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, stored.Per100, adhoc.Per100)
}

func TestRecipeMixFile(t *testing.T) {
	ctx := context.Background()
	c := testCalc()

	mf, err := c.RecipeMixFile(ctx, "9000", false)
	require.NoError(t, err)
	assert.Equal(t, "Schnitzel", mf.Name)
	assert.Equal(t, 20.0, mf.FluidLossPct)
	require.Len(t, mf.Components, 2)
	assert.Equal(t, &OilEntry{Food: "82108000", Pct: 10}, mf.Components[0].Oil)
	assert.Nil(t, mf.Components[1].Oil)

	path := filepath.Join(t.TempDir(), "schnitzel.yaml")
	require.NoError(t, WriteMixFile(path, mf))
	saved, err := ReadMixFile(path)
	require.NoError(t, err)

	stored, err := c.Recipe(ctx, "9000", false)
	require.NoError(t, err)
	edited, err := c.Mix(ctx, *saved)
	require.NoError(t, err)
	assert.Equal(t, stored.Per100, edited.Per100)
	assert.Equal(t, stored.Name, edited.Name)

	_, err = c.RecipeMixFile(ctx, "nope", false)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestMixFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schnitzel.yaml")
	mf := &MixFile{
		Name:         "schnitzel",
		FluidLossPct: 15,
		Components: []MixEntry{
			{Food: "100", Grams: 150, Retention: "5001", Oil: &OilEntry{Food: "82108000", Pct: 10}},
			{Food: "200", Amount: 2, Unit: "tablespoon", LossPct: 3},
		},
	}
	require.NoError(t, WriteMixFile(path, mf))

	got, err := ReadMixFile(path)
	require.NoError(t, err)
	assert.Equal(t, mf, got)
}
