// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// GramUnit is available for every food regardless of its unit table.
var GramUnit = Unit{Code: "g", Name: "gram", Grams: 1}

// Unit is a named serving measure with its weight in grams for one food.
type Unit struct {
	Code  string  `json:"code" yaml:"code"`
	Name  string  `json:"name" yaml:"name"`
	Grams float64 `json:"grams" yaml:"grams"`
}

// FoodItem is an immutable catalog record. Nutrients are per 100 g/ml.
type FoodItem struct {
	Code        string      `json:"code" yaml:"code"`
	Name        string      `json:"name" yaml:"name"`
	EnglishName string      `json:"english_name,omitempty" yaml:"english_name,omitempty"`
	Nutrients   Composition `json:"nutrients" yaml:"nutrients"`
	Units       []Unit      `json:"units,omitempty" yaml:"units,omitempty"`
}

// Unit resolves ref against the food's units by code, then by
// case-insensitive name. The gram unit always resolves.
func (f FoodItem) Unit(ref string) (Unit, bool) {
	ref = strings.TrimSpace(ref)
	for _, u := range f.Units {
		if u.Code == ref {
			return u, true
		}
	}
	for _, u := range f.Units {
		if strings.EqualFold(u.Name, ref) {
			return u, true
		}
	}
	if ref == "" || ref == GramUnit.Code || strings.EqualFold(ref, GramUnit.Name) || strings.EqualFold(ref, "grams") {
		return GramUnit, true
	}
	return Unit{}, false
}

// Summary returns the listing form of the food.
func (f FoodItem) Summary() FoodSummary {
	return FoodSummary{Code: f.Code, Name: f.Name, EnglishName: f.EnglishName}
}

// FoodSummary is the listing form of a FoodItem returned by searches.
type FoodSummary struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	EnglishName string `json:"english_name,omitempty" yaml:"english_name,omitempty"`

	// Values holds the columns requested by an advanced search.
	Values Composition `json:"values,omitempty" yaml:"values,omitempty"`
}
