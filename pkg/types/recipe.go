// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OilAbsorption describes oil taken up by a component during frying, as a
// percentage of the component's own mass.
type OilAbsorption struct {
	Oil FoodItem `json:"oil" yaml:"oil"`
	Pct float64  `json:"pct" yaml:"pct" validate:"gte=0,lte=100"`
}

// RecipeComponent is one resolved ingredient of a recipe or mix.
type RecipeComponent struct {
	Food  FoodItem `json:"food" yaml:"food"`
	Grams float64  `json:"grams" yaml:"grams" validate:"gte=0"`

	// LossPct is a uniform nutrient loss applied before retention.
	LossPct float64 `json:"loss_pct,omitempty" yaml:"loss_pct,omitempty" validate:"gte=0,lte=100"`

	Retention *RetentionProfile `json:"retention,omitempty" yaml:"retention,omitempty"`
	Oil       *OilAbsorption    `json:"oil,omitempty" yaml:"oil,omitempty"`
}

// OilGrams returns the mass of oil absorbed by the component.
func (c RecipeComponent) OilGrams() float64 {
	if c.Oil == nil {
		return 0
	}
	return c.Grams * c.Oil.Pct / 100
}

// Mix is an ordered list of resolved components.
type Mix struct {
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Components []RecipeComponent `json:"components" yaml:"components" validate:"dive"`
}

// TotalMass returns the summed component masses plus all absorbed oil.
func (m Mix) TotalMass() float64 {
	var total float64
	for _, c := range m.Components {
		total += c.Grams + c.OilGrams()
	}
	return total
}

// RawMass returns the summed component masses without absorbed oil.
func (m Mix) RawMass() float64 {
	var total float64
	for _, c := range m.Components {
		total += c.Grams
	}
	return total
}

// RecipeRow is a stored, unresolved recipe component referencing catalog
// codes.
type RecipeRow struct {
	IngredientCode string  `json:"ingredient_code" yaml:"ingredient_code"`
	Grams          float64 `json:"grams" yaml:"grams"`
	LossPct        float64 `json:"loss_pct,omitempty" yaml:"loss_pct,omitempty"`
	RetentionCode  string  `json:"retention_code,omitempty" yaml:"retention_code,omitempty"`
	OilCode        string  `json:"oil_code,omitempty" yaml:"oil_code,omitempty"`
	OilPct         float64 `json:"oil_pct,omitempty" yaml:"oil_pct,omitempty"`
}

// Recipe is a stored recipe: its components and cooking fluid loss.
type Recipe struct {
	Code         string      `json:"code" yaml:"code"`
	FluidLossPct float64     `json:"fluid_loss_pct" yaml:"fluid_loss_pct"`
	Rows         []RecipeRow `json:"rows" yaml:"rows"`
}
