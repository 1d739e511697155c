// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package predicate compiles an ordered list of search conditions into one
// filter. Conditions combine strictly left to right with no precedence:
// [a AND, b OR, c] means ((a AND b) OR c). The filter evaluates in memory
// against any Record and renders to a parenthesized SQL WHERE fragment.
package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// Record exposes nutrient values to the filter. types.Vector and
// types.Composition both satisfy it.
type Record interface {
	Lookup(types.Nutrient) (float64, bool)
}

// ColumnFunc maps a nutrient to the SQL expression holding its value.
type ColumnFunc func(types.Nutrient) string

type node interface {
	eval(r Record) bool
	sql(b *strings.Builder, args *[]any, col ColumnFunc)
	str(b *strings.Builder)
	fields(seen map[types.Nutrient]bool, out *[]types.Nutrient)
}

// Predicate is a compiled condition chain. The zero value matches nothing.
type Predicate struct {
	root node

	// Skipped lists conditions dropped from the chain, each wrapping
	// types.ErrMalformedCondition.
	Skipped []error
}

// Build compiles conds. Malformed conditions are dropped and reported on
// Skipped; the connective of the condition before a dropped one still
// joins the next kept condition. An empty or fully dropped list yields a
// predicate that matches nothing.
func Build(conds []types.SearchCondition) Predicate {
	var p Predicate
	for i, c := range conds {
		a, err := compile(c)
		if err != nil {
			p.Skipped = append(p.Skipped, fmt.Errorf("condition %d: %w", i+1, err))
			continue
		}
		if p.root == nil {
			p.root = a
			continue
		}
		p.root = &joined{conn: connective(conds[i-1].Next), left: p.root, right: a}
	}
	return p
}

func connective(c types.Connective) types.Connective {
	if strings.EqualFold(string(c), string(types.Or)) {
		return types.Or
	}
	return types.And
}

func compile(c types.SearchCondition) (node, error) {
	if !c.Field.Known() {
		return nil, fmt.Errorf("%w: %w: %q", types.ErrMalformedCondition, types.ErrUnknownNutrient, c.Field)
	}
	switch c.Operator {
	case types.OpEqual, types.OpGreater, types.OpLess, types.OpGreaterEqual, types.OpLessEqual:
		return &atom{field: c.Field, op: c.Operator, lo: c.Value}, nil
	case types.OpBetween:
		if c.Value2 == nil {
			return nil, fmt.Errorf("%w: between on %s needs two values", types.ErrMalformedCondition, c.Field)
		}
		return &atom{field: c.Field, op: c.Operator, lo: c.Value, hi: *c.Value2}, nil
	}
	return nil, fmt.Errorf("%w: unknown operator %q", types.ErrMalformedCondition, c.Operator)
}

// Empty reports whether no condition survived compilation.
func (p Predicate) Empty() bool { return p.root == nil }

// Matches evaluates the predicate against r. A condition on an absent
// nutrient is false, as a SQL comparison with NULL would be.
func (p Predicate) Matches(r Record) bool {
	if p.root == nil {
		return false
	}
	return p.root.eval(r)
}

// SQL renders the predicate as a WHERE fragment with positional arguments.
// The empty predicate renders as "0".
func (p Predicate) SQL(col ColumnFunc) (string, []any) {
	if p.root == nil {
		return "0", nil
	}
	var b strings.Builder
	var args []any
	p.root.sql(&b, &args, col)
	return b.String(), args
}

// Fields returns the nutrients the predicate references, in first-use order.
func (p Predicate) Fields() []types.Nutrient {
	var out []types.Nutrient
	if p.root != nil {
		p.root.fields(map[types.Nutrient]bool{}, &out)
	}
	return out
}

// String renders the predicate with explicit grouping, e.g.
// "((protein > 5 AND sodium < 100) OR total_dietary_fiber > 10)".
func (p Predicate) String() string {
	if p.root == nil {
		return "<nothing>"
	}
	var b strings.Builder
	p.root.str(&b)
	return b.String()
}

type atom struct {
	field  types.Nutrient
	op     types.Operator
	lo, hi float64
}

func (a *atom) eval(r Record) bool {
	v, ok := r.Lookup(a.field)
	if !ok {
		return false
	}
	switch a.op {
	case types.OpEqual:
		return v == a.lo
	case types.OpGreater:
		return v > a.lo
	case types.OpLess:
		return v < a.lo
	case types.OpGreaterEqual:
		return v >= a.lo
	case types.OpLessEqual:
		return v <= a.lo
	case types.OpBetween:
		return v >= a.lo && v <= a.hi
	}
	return false
}

func (a *atom) sql(b *strings.Builder, args *[]any, col ColumnFunc) {
	b.WriteString(col(a.field))
	if a.op == types.OpBetween {
		b.WriteString(" BETWEEN ? AND ?")
		*args = append(*args, a.lo, a.hi)
		return
	}
	b.WriteString(" " + a.op.Symbol() + " ?")
	*args = append(*args, a.lo)
}

func (a *atom) str(b *strings.Builder) {
	b.WriteString(string(a.field) + " " + a.op.Symbol() + " " + formatValue(a.lo))
	if a.op == types.OpBetween {
		b.WriteString(" AND " + formatValue(a.hi))
	}
}

func (a *atom) fields(seen map[types.Nutrient]bool, out *[]types.Nutrient) {
	if !seen[a.field] {
		seen[a.field] = true
		*out = append(*out, a.field)
	}
}

type joined struct {
	conn        types.Connective
	left, right node
}

func (j *joined) eval(r Record) bool {
	if j.conn == types.Or {
		return j.left.eval(r) || j.right.eval(r)
	}
	return j.left.eval(r) && j.right.eval(r)
}

func (j *joined) sql(b *strings.Builder, args *[]any, col ColumnFunc) {
	b.WriteByte('(')
	j.left.sql(b, args, col)
	b.WriteString(" " + string(j.conn) + " ")
	j.right.sql(b, args, col)
	b.WriteByte(')')
}

func (j *joined) str(b *strings.Builder) {
	b.WriteByte('(')
	j.left.str(b)
	b.WriteString(" " + string(j.conn) + " ")
	j.right.str(b)
	b.WriteByte(')')
}

func (j *joined) fields(seen map[types.Nutrient]bool, out *[]types.Nutrient) {
	j.left.fields(seen, out)
	j.right.fields(seen, out)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
