// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the nutrilabel engine:
// the fixed nutrient catalog, food and retention reference records,
// recipe components, search conditions, and configuration.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Nutrient is a key in the fixed nutrient catalog (e.g. "protein", "sodium").
type Nutrient string

// NutrientGroup classifies catalog entries for display.
type NutrientGroup string

const (
	GroupMacro   NutrientGroup = "macronutrients"
	GroupFat     NutrientGroup = "fats"
	GroupVitamin NutrientGroup = "vitamins"
	GroupMineral NutrientGroup = "minerals"
	GroupAmino   NutrientGroup = "amino_acids"
	GroupOther   NutrientGroup = "other"
)

const (
	FoodEnergy         Nutrient = "food_energy"
	Protein            Nutrient = "protein"
	TotalFat           Nutrient = "total_fat"
	Carbohydrates      Nutrient = "carbohydrates"
	TotalDietaryFiber  Nutrient = "total_dietary_fiber"
	TotalSugars        Nutrient = "total_sugars"
	Alcohol            Nutrient = "alcohol"
	Moisture           Nutrient = "moisture"
	SaturatedFat       Nutrient = "saturated_fat"
	MonoUnsaturatedFat Nutrient = "mono_unsaturated_fat"
	PolyUnsaturatedFat Nutrient = "poly_unsaturated_fat"
	TransFattyAcids    Nutrient = "trans_fatty_acids"
	Cholesterol        Nutrient = "cholesterol"
	Linoleic           Nutrient = "linoleic"
	Linolenic          Nutrient = "linolenic"
	Oleic              Nutrient = "oleic"
	Docosahexanoic     Nutrient = "docosahexanoic"
	Eicosapentaenoic   Nutrient = "eicosapentaenoic"
	Arachidonic        Nutrient = "arachidonic"
	VitaminAIU         Nutrient = "vitamin_a_iu"
	VitaminARE         Nutrient = "vitamin_a_re"
	Carotene           Nutrient = "carotene"
	VitaminE           Nutrient = "vitamin_e"
	VitaminC           Nutrient = "vitamin_c"
	Thiamin            Nutrient = "thiamin"
	Riboflavin         Nutrient = "riboflavin"
	Niacin             Nutrient = "niacin"
	VitaminB6          Nutrient = "vitamin_b6"
	Folate             Nutrient = "folate"
	VitaminB12         Nutrient = "vitamin_b12"
	VitaminD           Nutrient = "vitamin_d"
	VitaminK           Nutrient = "vitamin_k"
	PantothenicAcid    Nutrient = "pantothenic_acid"
	Biotin             Nutrient = "biotin"
	Choline            Nutrient = "choline"
	Calcium            Nutrient = "calcium"
	Iron               Nutrient = "iron"
	Magnesium          Nutrient = "magnesium"
	Phosphorus         Nutrient = "phosphorus"
	Potassium          Nutrient = "potassium"
	Sodium             Nutrient = "sodium"
	Zinc               Nutrient = "zinc"
	Copper             Nutrient = "copper"
	Manganese          Nutrient = "manganese"
	Selenium           Nutrient = "selenium"
	Iodine             Nutrient = "iodine"
	Isoleucine         Nutrient = "isoleucine"
	Leucine            Nutrient = "leucine"
	Valine             Nutrient = "valine"
	Lysine             Nutrient = "lysine"
	Methionine         Nutrient = "methionine"
	Phenylalanine      Nutrient = "phenylalanine"
	Threonine          Nutrient = "threonine"
	Tryptophan         Nutrient = "tryptophan"
	Histidine          Nutrient = "histidine"
	Arginine           Nutrient = "arginine"
	Fructose           Nutrient = "fructose"
	SugarAlcohols      Nutrient = "sugar_alcohols"
)

// NutrientInfo describes one catalog entry.
type NutrientInfo struct {
	Key   Nutrient      `json:"key" yaml:"key"`
	Name  string        `json:"name" yaml:"name"`
	Unit  string        `json:"unit" yaml:"unit"`
	Group NutrientGroup `json:"group" yaml:"group"`

	// Retained marks the vitamins and minerals that cooking retention
	// profiles apply to. All other nutrients pass through unchanged.
	Retained bool `json:"retained" yaml:"retained"`
}

// Nutrients is the fixed catalog in display order.
var Nutrients = []NutrientInfo{
	{FoodEnergy, "Energy", "kcal", GroupMacro, false},
	{Protein, "Protein", "g", GroupMacro, false},
	{TotalFat, "Total fat", "g", GroupMacro, false},
	{Carbohydrates, "Carbohydrates", "g", GroupMacro, false},
	{TotalDietaryFiber, "Dietary fiber", "g", GroupMacro, false},
	{TotalSugars, "Total sugars", "g", GroupMacro, false},
	{Alcohol, "Alcohol", "g", GroupMacro, false},
	{Moisture, "Moisture", "g", GroupMacro, false},

	{SaturatedFat, "Saturated fat", "g", GroupFat, false},
	{MonoUnsaturatedFat, "Monounsaturated fat", "g", GroupFat, false},
	{PolyUnsaturatedFat, "Polyunsaturated fat", "g", GroupFat, false},
	{TransFattyAcids, "Trans fatty acids", "g", GroupFat, false},
	{Cholesterol, "Cholesterol", "mg", GroupFat, false},
	{Linoleic, "Linoleic acid (omega-6)", "g", GroupFat, false},
	{Linolenic, "Linolenic acid (omega-3)", "g", GroupFat, false},
	{Oleic, "Oleic acid", "g", GroupFat, false},
	{Docosahexanoic, "DHA", "g", GroupFat, false},
	{Eicosapentaenoic, "EPA", "g", GroupFat, false},
	{Arachidonic, "Arachidonic acid", "g", GroupFat, false},

	{VitaminAIU, "Vitamin A", "IU", GroupVitamin, true},
	{VitaminARE, "Vitamin A (RE)", "µg", GroupVitamin, true},
	{Carotene, "Carotene", "µg", GroupVitamin, true},
	{VitaminE, "Vitamin E", "mg", GroupVitamin, false},
	{VitaminC, "Vitamin C", "mg", GroupVitamin, true},
	{Thiamin, "Thiamin (B1)", "mg", GroupVitamin, true},
	{Riboflavin, "Riboflavin (B2)", "mg", GroupVitamin, true},
	{Niacin, "Niacin (B3)", "mg", GroupVitamin, true},
	{VitaminB6, "Vitamin B6", "mg", GroupVitamin, true},
	{Folate, "Folate", "µg", GroupVitamin, true},
	{VitaminB12, "Vitamin B12", "µg", GroupVitamin, true},
	{VitaminD, "Vitamin D", "µg", GroupVitamin, false},
	{VitaminK, "Vitamin K", "µg", GroupVitamin, false},
	{PantothenicAcid, "Pantothenic acid", "mg", GroupVitamin, false},
	{Biotin, "Biotin", "µg", GroupVitamin, false},
	{Choline, "Choline", "mg", GroupVitamin, true},

	{Calcium, "Calcium", "mg", GroupMineral, true},
	{Iron, "Iron", "mg", GroupMineral, true},
	{Magnesium, "Magnesium", "mg", GroupMineral, true},
	{Phosphorus, "Phosphorus", "mg", GroupMineral, true},
	{Potassium, "Potassium", "mg", GroupMineral, true},
	{Sodium, "Sodium", "mg", GroupMineral, true},
	{Zinc, "Zinc", "mg", GroupMineral, true},
	{Copper, "Copper", "mg", GroupMineral, true},
	{Manganese, "Manganese", "mg", GroupMineral, false},
	{Selenium, "Selenium", "µg", GroupMineral, false},
	{Iodine, "Iodine", "µg", GroupMineral, false},

	{Isoleucine, "Isoleucine", "g", GroupAmino, false},
	{Leucine, "Leucine", "g", GroupAmino, false},
	{Valine, "Valine", "g", GroupAmino, false},
	{Lysine, "Lysine", "g", GroupAmino, false},
	{Methionine, "Methionine", "g", GroupAmino, false},
	{Phenylalanine, "Phenylalanine", "g", GroupAmino, false},
	{Threonine, "Threonine", "g", GroupAmino, false},
	{Tryptophan, "Tryptophan", "g", GroupAmino, false},
	{Histidine, "Histidine", "g", GroupAmino, false},
	{Arginine, "Arginine", "g", GroupAmino, false},

	{Fructose, "Fructose", "g", GroupOther, false},
	{SugarAlcohols, "Sugar alcohols", "g", GroupOther, false},
}

var nutrientIndex = func() map[Nutrient]int {
	idx := make(map[Nutrient]int, len(Nutrients))
	for i, n := range Nutrients {
		idx[n.Key] = i
	}
	return idx
}()

// Lookup returns the catalog entry for n.
func (n Nutrient) Lookup() (NutrientInfo, bool) {
	i, ok := nutrientIndex[n]
	if !ok {
		return NutrientInfo{}, false
	}
	return Nutrients[i], true
}

// Known reports whether n belongs to the catalog.
func (n Nutrient) Known() bool {
	_, ok := nutrientIndex[n]
	return ok
}

// Retained reports whether retention profiles apply to n.
func (n Nutrient) Retained() bool {
	info, ok := n.Lookup()
	return ok && info.Retained
}

// ParseNutrient normalizes s and resolves it against the catalog.
func ParseNutrient(s string) (Nutrient, error) {
	k := Nutrient(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !k.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownNutrient, s)
	}
	return k, nil
}

// Composition holds a food's stored per-100 g/ml values as the decimal
// literals they were recorded with. A missing key means no data; a key
// with literal "0" means a measured zero.
type Composition map[Nutrient]string

// Literal returns the stored literal for n, or "" when absent.
func (c Composition) Literal(n Nutrient) string {
	return strings.TrimSpace(c[n])
}

// Lookup parses the stored literal for n. Absent and non-numeric values
// report false.
func (c Composition) Lookup(n Nutrient) (float64, bool) {
	return ParseDecimal(c.Literal(n))
}

// Value is Lookup with absence resolved to zero.
func (c Composition) Value(n Nutrient) float64 {
	v, _ := c.Lookup(n)
	return v
}

// Vector returns the numeric values of every present nutrient.
func (c Composition) Vector() Vector {
	v := make(Vector, len(c))
	for k := range c {
		if f, ok := c.Lookup(k); ok {
			v[k] = f
		}
	}
	return v
}

// Vector is a computed nutrient mapping. Keys not present are absent,
// which is distinct from a present zero.
type Vector map[Nutrient]float64

// Lookup returns the value for n and whether it is present.
func (v Vector) Lookup(n Nutrient) (float64, bool) {
	f, ok := v[n]
	return f, ok
}

// Value returns the value for n, resolving absence to zero.
func (v Vector) Value(n Nutrient) float64 {
	return v[n]
}

// Keys returns the present nutrients in catalog order. Keys outside the
// catalog sort last, alphabetically.
func (v Vector) Keys() []Nutrient {
	keys := make([]Nutrient, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ii, iok := nutrientIndex[keys[i]]
		ji, jok := nutrientIndex[keys[j]]
		switch {
		case iok && jok:
			return ii < ji
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Scale returns a copy of v with every value multiplied by factor.
func (v Vector) Scale(factor float64) Vector {
	out := make(Vector, len(v))
	for k, f := range v {
		out[k] = f * factor
	}
	return out
}
