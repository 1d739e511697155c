// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package label classifies a finalized nutrient vector against the
// regulatory "high in" thresholds for front-of-package labels.
package label

import "github.com/pdiddy/nutrilabel/pkg/types"

// Tag is a front-of-package warning.
type Tag string

const (
	HighSodium       Tag = "high_sodium"
	HighSugar        Tag = "high_sugar"
	HighSaturatedFat Tag = "high_saturated_fat"
)

// Thresholds are cutoffs per 100 g or 100 ml.
type Thresholds struct {
	Sodium       float64 `json:"sodium" yaml:"sodium"`
	TotalSugars  float64 `json:"total_sugars" yaml:"total_sugars"`
	SaturatedFat float64 `json:"saturated_fat" yaml:"saturated_fat"`
}

var (
	// Solid applies to foods measured per 100 g.
	Solid = Thresholds{Sodium: 400, TotalSugars: 10, SaturatedFat: 4}

	// Liquid applies to drinks measured per 100 ml.
	Liquid = Thresholds{Sodium: 300, TotalSugars: 5, SaturatedFat: 3}
)

// For returns the threshold set for the product's physical state.
func For(liquid bool) Thresholds {
	if liquid {
		return Liquid
	}
	return Solid
}

// Classify returns the tags whose nutrient strictly exceeds its threshold,
// in the order sodium, sugar, saturated fat. Absent values never trigger.
func Classify(v types.Vector, liquid bool) []Tag {
	th := For(liquid)
	checks := []struct {
		tag    Tag
		key    types.Nutrient
		cutoff float64
	}{
		{HighSodium, types.Sodium, th.Sodium},
		{HighSugar, types.TotalSugars, th.TotalSugars},
		{HighSaturatedFat, types.SaturatedFat, th.SaturatedFat},
	}
	tags := []Tag{}
	for _, c := range checks {
		if v.Value(c.key) > c.cutoff {
			tags = append(tags, c.tag)
		}
	}
	return tags
}
