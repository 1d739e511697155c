// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nutrilabel/internal/predicate"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.CatalogConfig{
		DBPath:     filepath.Join(t.TempDir(), "data", "nutrition.db"),
		MaxResults: 10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedFoods(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	foods := []types.FoodItem{
		{Code: "100", Name: "Chicken breast", EnglishName: "Chicken breast, raw", Nutrients: types.Composition{
			types.Protein: "23.10", types.TotalFat: "1.2", types.Sodium: "74", types.SaturatedFat: "0.3",
		}},
		{Code: "200", Name: "Lentils", Nutrients: types.Composition{
			types.Protein: "24.0", types.TotalDietaryFiber: "10.7", types.Sodium: "6",
		}},
		{Code: "300", Name: "Salted crackers", Nutrients: types.Composition{
			types.Protein: "9", types.Sodium: "1100", types.TotalDietaryFiber: "",
		}},
		{Code: "400", Name: "Water", Nutrients: types.Composition{types.Sodium: "0"}},
	}
	for _, f := range foods {
		require.NoError(t, s.SaveFood(ctx, f))
	}
	require.NoError(t, s.SaveUnit(ctx, "7", "cup"))
	require.NoError(t, s.SaveUnit(ctx, "12", "tablespoon"))
	require.NoError(t, s.SaveFoodUnit(ctx, "200", "7", 192))
	require.NoError(t, s.SaveFoodUnit(ctx, "200", "12", 12))
}

func TestOpenCreatesSchema(t *testing.T) {
	s := testStore(t)
	for _, table := range []string{"foods", "units", "food_units", "retention_profiles", "retention_factors", "recipes", "recipe_components"} {
		var n int
		err := s.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
}

func TestOpenCreatesDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	s, err := Open(types.CatalogConfig{DBPath: path})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, 50, s.maxResults)
}

func TestGetFoodItemPreservesLiterals(t *testing.T) {
	s := testStore(t)
	seedFoods(t, s)

	f, err := s.GetFoodItem(context.Background(), "200")
	require.NoError(t, err)
	assert.Equal(t, "Lentils", f.Name)
	assert.Equal(t, "24.0", f.Nutrients.Literal(types.Protein))
	assert.Equal(t, "10.7", f.Nutrients.Literal(types.TotalDietaryFiber))
	_, present := f.Nutrients[types.TotalFat]
	assert.False(t, present, "absent nutrient must stay absent")

	require.Len(t, f.Units, 2)
	assert.Equal(t, types.Unit{Code: "7", Name: "cup", Grams: 192}, f.Units[0])
	assert.Equal(t, "tablespoon", f.Units[1].Name)
}

func TestGetFoodItemMeasuredZero(t *testing.T) {
	s := testStore(t)
	seedFoods(t, s)

	f, err := s.GetFoodItem(context.Background(), "400")
	require.NoError(t, err)
	v, ok := f.Nutrients.Lookup(types.Sodium)
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestGetFoodItemNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetFoodItem(context.Background(), "999")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestSearchByName(t *testing.T) {
	s := testStore(t)
	seedFoods(t, s)
	ctx := context.Background()

	got, err := s.SearchByName(ctx, "chick")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100", got[0].Code)
	assert.Equal(t, "Chicken breast, raw", got[0].EnglishName)

	got, err = s.SearchByName(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Chicken breast", got[0].Name, "ordered by name")

	got, err = s.SearchByName(ctx, "mango")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchByNameRespectsMaxResults(t *testing.T) {
	s := testStore(t)
	s.maxResults = 2
	seedFoods(t, s)

	got, err := s.SearchByName(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func codes(fs []types.FoodSummary) []string {
	var out []string
	for _, f := range fs {
		out = append(out, f.Code)
	}
	return out
}

func TestSearchPredicate(t *testing.T) {
	s := testStore(t)
	seedFoods(t, s)
	ctx := context.Background()

	p := predicate.Build([]types.SearchCondition{
		{Field: types.Protein, Operator: types.OpGreater, Value: 20, Next: types.And},
		{Field: types.Sodium, Operator: types.OpLess, Value: 50, Next: types.Or},
		{Field: types.Sodium, Operator: types.OpGreater, Value: 1000},
	})
	got, err := s.Search(ctx, p, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"200", "300"}, codes(got))
	assert.Equal(t, "24.0", got[0].Values.Literal(types.Protein))
	assert.Equal(t, "6", got[0].Values.Literal(types.Sodium))
}

func TestSearchMatchesStoredEvaluation(t *testing.T) {
	s := testStore(t)
	seedFoods(t, s)
	ctx := context.Background()

	conds := []types.SearchCondition{
		{Field: types.TotalDietaryFiber, Operator: types.OpGreaterEqual, Value: 0, Next: types.Or},
		{Field: types.Sodium, Operator: types.OpBetween, Value: 0, Value2: ptr(10)},
	}
	p := predicate.Build(conds)
	got, err := s.Search(ctx, p, []types.Nutrient{types.TotalDietaryFiber, types.Sodium})
	require.NoError(t, err)

	all, err := s.AllFoods(ctx)
	require.NoError(t, err)
	var want []string
	for _, f := range all {
		if p.Matches(f.Nutrients) {
			want = append(want, f.Code)
		}
	}
	assert.ElementsMatch(t, want, codes(got))
	assert.ElementsMatch(t, []string{"200", "400"}, codes(got))
}

func TestSearchEmptyPredicate(t *testing.T) {
	s := testStore(t)
	seedFoods(t, s)

	got, err := s.Search(context.Background(), predicate.Build(nil), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchUnknownColumn(t *testing.T) {
	s := testStore(t)
	p := predicate.Build([]types.SearchCondition{{Field: types.Protein, Operator: types.OpGreater, Value: 1}})
	_, err := s.Search(context.Background(), p, []types.Nutrient{"bogus"})
	assert.True(t, errors.Is(err, types.ErrUnknownNutrient))
}

func ptr(v float64) *float64 { return &v }

func TestRetentionProfiles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRetentionProfile(ctx, types.RetentionProfile{
		Code: "5000", Name: "Boiled, drained", LocalName: "מבושל",
		Factors: map[types.Nutrient]float64{types.VitaminC: 50, types.Folate: 70},
	}))
	require.NoError(t, s.SaveRetentionProfile(ctx, types.RetentionProfile{
		Code: "5001", Name: "Fried",
		Factors: map[types.Nutrient]float64{types.Thiamin: 80},
	}))

	p, err := s.GetRetentionProfile(ctx, "5000")
	require.NoError(t, err)
	assert.Equal(t, "מבושל", p.LocalName)
	assert.Equal(t, 0.5, p.Multiplier(types.VitaminC))
	assert.Equal(t, 1.0, p.Multiplier(types.Protein))

	list, err := s.ListRetentionProfiles(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "5000", list[0].Code)

	list, err = s.ListRetentionProfiles(ctx, "fri")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "5001", list[0].Code)

	list, err = s.ListRetentionProfiles(ctx, "מבושל")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = s.GetRetentionProfile(ctx, "nope")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestSaveRetentionProfileReplacesFactors(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRetentionProfile(ctx, types.RetentionProfile{
		Code: "1", Name: "x", Factors: map[types.Nutrient]float64{types.VitaminC: 50, types.Iron: 90},
	}))
	require.NoError(t, s.SaveRetentionProfile(ctx, types.RetentionProfile{
		Code: "1", Name: "x", Factors: map[types.Nutrient]float64{types.VitaminC: 40},
	}))
	p, err := s.GetRetentionProfile(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, map[types.Nutrient]float64{types.VitaminC: 40}, p.Factors)
}

func TestRecipes(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	want := types.Recipe{
		Code:         "9000",
		FluidLossPct: 20,
		Rows: []types.RecipeRow{
			{IngredientCode: "100", Grams: 150, RetentionCode: "5001", OilCode: "82108000", OilPct: 10},
			{IngredientCode: "200", Grams: 50, LossPct: 5},
		},
	}
	require.NoError(t, s.SaveRecipe(ctx, want))

	got, err := s.GetRecipe(ctx, "9000")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.GetRecipe(ctx, "9001")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestExport(t *testing.T) {
	s := testStore(t)
	seedFoods(t, s)
	ctx := context.Background()
	require.NoError(t, s.SaveRetentionProfile(ctx, types.RetentionProfile{
		Code: "5000", Name: "Boiled", Factors: map[types.Nutrient]float64{types.VitaminC: 50},
	}))

	var yb bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &yb))
	var fromYAML Export
	require.NoError(t, yaml.Unmarshal(yb.Bytes(), &fromYAML))
	require.Len(t, fromYAML.Foods, 4)
	assert.Equal(t, "100", fromYAML.Foods[0].Code)
	assert.Equal(t, "23.10", fromYAML.Foods[0].Nutrients.Literal(types.Protein))
	assert.Len(t, fromYAML.Foods[1].Units, 2)
	require.Len(t, fromYAML.Retention, 1)
	assert.Equal(t, 50.0, fromYAML.Retention[0].Factors[types.VitaminC])

	var jb bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, &jb))
	var fromJSON Export
	require.NoError(t, json.Unmarshal(jb.Bytes(), &fromJSON))
	assert.Len(t, fromJSON.Foods, 4)
	assert.Len(t, fromJSON.Nutrients, len(types.Nutrients))
}

func TestStats(t *testing.T) {
	s := testStore(t)
	seedFoods(t, s)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Foods: 4, Units: 2, FoodUnits: 2}, st)
}
