// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// ParseCondition reads the command-line form
// field:operator:value[:value2][:and|or], e.g. "protein:gt:5:and" or
// "sodium:between:10:100". Unknown fields are kept as written so Build can
// report and drop them.
func ParseCondition(s string) (types.SearchCondition, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 3 {
		return types.SearchCondition{}, fmt.Errorf("condition %q: want field:operator:value", s)
	}

	var cond types.SearchCondition
	if n, err := types.ParseNutrient(parts[0]); err == nil {
		cond.Field = n
	} else {
		cond.Field = types.Nutrient(strings.TrimSpace(parts[0]))
	}

	op, err := types.ParseOperator(parts[1])
	if err != nil {
		return types.SearchCondition{}, fmt.Errorf("condition %q: %w", s, err)
	}
	cond.Operator = op

	if cond.Value, err = parseValue(parts[2]); err != nil {
		return types.SearchCondition{}, fmt.Errorf("condition %q: %w", s, err)
	}
	rest := parts[3:]

	if op == types.OpBetween && len(rest) > 0 && !isConnective(rest[0]) {
		v2, err := parseValue(rest[0])
		if err != nil {
			return types.SearchCondition{}, fmt.Errorf("condition %q: %w", s, err)
		}
		cond.Value2 = &v2
		rest = rest[1:]
	}

	switch len(rest) {
	case 0:
	case 1:
		if cond.Next, err = types.ParseConnective(rest[0]); err != nil {
			return types.SearchCondition{}, fmt.Errorf("condition %q: %w", s, err)
		}
	default:
		return types.SearchCondition{}, fmt.Errorf("condition %q: unexpected %q", s, strings.Join(rest, ":"))
	}
	return cond, nil
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a number", s)
	}
	return v, nil
}

func isConnective(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND", "OR":
		return true
	}
	return false
}
