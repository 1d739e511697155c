// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RetentionProfile gives the percentage of each retained nutrient that
// survives one cooking or processing method.
type RetentionProfile struct {
	Code      string `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
	LocalName string `json:"local_name,omitempty" yaml:"local_name,omitempty"`

	// Factors maps nutrient keys to a retention percentage in [0, 100].
	Factors map[Nutrient]float64 `json:"factors" yaml:"factors" validate:"dive,gte=0,lte=100"`
}

// Multiplier returns the fraction of n that survives the method. Nutrients
// outside the retained subset, and retained nutrients the profile does not
// list, are unaffected.
func (p *RetentionProfile) Multiplier(n Nutrient) float64 {
	if p == nil || !n.Retained() {
		return 1
	}
	pct, ok := p.Factors[n]
	if !ok {
		return 1
	}
	return pct / 100
}
