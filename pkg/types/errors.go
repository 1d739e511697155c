// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

var (
	// ErrInvalidQuantity reports an amount, mass or unit weight that is not
	// positive where a positive value is required.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidLossPercentage reports a loss, retention or absorption
	// percentage outside its accepted range.
	ErrInvalidLossPercentage = errors.New("invalid loss percentage")

	// ErrMalformedCondition reports a search condition that cannot be
	// compiled. Such conditions are dropped from the predicate.
	ErrMalformedCondition = errors.New("malformed condition")

	// ErrUnknownNutrient reports a key outside the nutrient catalog.
	ErrUnknownNutrient = errors.New("unknown nutrient")

	// ErrNotFound reports a code with no catalog record.
	ErrNotFound = errors.New("not found")
)
