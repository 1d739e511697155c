// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Operator is a search comparison.
type Operator string

const (
	OpEqual        Operator = "eq"
	OpGreater      Operator = "gt"
	OpLess         Operator = "lt"
	OpGreaterEqual Operator = "gte"
	OpLessEqual    Operator = "lte"
	OpBetween      Operator = "between"
)

var operatorAliases = map[string]Operator{
	"eq": OpEqual, "=": OpEqual, "==": OpEqual,
	"gt": OpGreater, ">": OpGreater,
	"lt": OpLess, "<": OpLess,
	"gte": OpGreaterEqual, ">=": OpGreaterEqual,
	"lte": OpLessEqual, "<=": OpLessEqual,
	"between": OpBetween,
}

// ParseOperator accepts the symbolic and named spellings of an operator.
func ParseOperator(s string) (Operator, error) {
	op, ok := operatorAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown operator %q", s)
	}
	return op, nil
}

// Symbol returns the SQL comparison for single-value operators.
func (o Operator) Symbol() string {
	switch o {
	case OpEqual:
		return "="
	case OpGreater:
		return ">"
	case OpLess:
		return "<"
	case OpGreaterEqual:
		return ">="
	case OpLessEqual:
		return "<="
	case OpBetween:
		return "BETWEEN"
	}
	return ""
}

// Connective joins a condition to the one after it.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

// ParseConnective accepts "and"/"or" in any case. Empty means AND.
func ParseConnective(s string) (Connective, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AND":
		return And, nil
	case "OR":
		return Or, nil
	}
	return "", fmt.Errorf("unknown connective %q", s)
}

// SearchCondition is one step of an advanced search. Next joins it to the
// following condition and is ignored on the last one.
type SearchCondition struct {
	Field    Nutrient   `json:"field" yaml:"field"`
	Operator Operator   `json:"operator" yaml:"operator"`
	Value    float64    `json:"value" yaml:"value"`
	Value2   *float64   `json:"value2,omitempty" yaml:"value2,omitempty"`
	Next     Connective `json:"next,omitempty" yaml:"next,omitempty"`
}
