// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/nutrilabel/internal/predicate"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// GetFoodItem returns the food with the given code and its unit table.
func (s *Store) GetFoodItem(ctx context.Context, code string) (types.FoodItem, error) {
	cols := nutrientColumns()
	query := `SELECT code, name, english_name, ` + strings.Join(cols, ", ") + ` FROM foods WHERE code = ?`

	dest, scanned := scanTargets(3 + len(cols))
	err := s.db.QueryRowContext(ctx, query, code).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return types.FoodItem{}, fmt.Errorf("food %s: %w", code, types.ErrNotFound)
	}
	if err != nil {
		return types.FoodItem{}, fmt.Errorf("looking up food %s: %w", code, err)
	}

	item := types.FoodItem{
		Code:        scanned[0].String,
		Name:        scanned[1].String,
		EnglishName: scanned[2].String,
		Nutrients:   composition(catalogKeys(), scanned[3:]),
	}

	units, err := s.FoodUnits(ctx, code)
	if err != nil {
		return types.FoodItem{}, err
	}
	item.Units = units
	return item, nil
}

// FoodUnits returns the serving units defined for a food, ordered by name.
// The built-in gram unit is not listed.
func (s *Store) FoodUnits(ctx context.Context, code string) ([]types.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fu.unit_code, COALESCE(u.name, fu.unit_code), fu.grams
		 FROM food_units fu
		 LEFT JOIN units u ON u.code = fu.unit_code
		 WHERE fu.food_code = ?
		 ORDER BY 2`, code)
	if err != nil {
		return nil, fmt.Errorf("querying units for %s: %w", code, err)
	}
	defer rows.Close()

	var units []types.Unit
	for rows.Next() {
		var u types.Unit
		if err := rows.Scan(&u.Code, &u.Name, &u.Grams); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// SearchByName returns foods whose local or English name contains term,
// ordered by name.
func (s *Store) SearchByName(ctx context.Context, term string) ([]types.FoodSummary, error) {
	like := "%" + strings.TrimSpace(term) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, english_name FROM foods
		 WHERE name LIKE ? OR english_name LIKE ?
		 ORDER BY name LIMIT ?`, like, like, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching foods: %w", err)
	}
	defer rows.Close()

	var results []types.FoodSummary
	for rows.Next() {
		var (
			fs      types.FoodSummary
			english sql.NullString
		)
		if err := rows.Scan(&fs.Code, &fs.Name, &english); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		fs.EnglishName = english.String
		results = append(results, fs)
	}
	return results, rows.Err()
}

// Search returns foods matching p with the requested nutrient columns
// attached to each summary. With no columns, the fields p references are
// returned. An empty predicate returns no rows without querying.
func (s *Store) Search(ctx context.Context, p predicate.Predicate, columns []types.Nutrient) ([]types.FoodSummary, error) {
	if p.Empty() {
		return nil, nil
	}
	if len(columns) == 0 {
		columns = p.Fields()
	}
	for _, c := range columns {
		if !c.Known() {
			return nil, fmt.Errorf("column %q: %w", c, types.ErrUnknownNutrient)
		}
	}

	where, args := p.SQL(valueExpr)

	var qb strings.Builder
	qb.WriteString(`SELECT code, name, english_name`)
	for _, c := range columns {
		qb.WriteString(", " + quote(c))
	}
	qb.WriteString(` FROM foods WHERE ` + where + ` ORDER BY name LIMIT ?`)
	args = append(args, s.maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("running advanced search: %w", err)
	}
	defer rows.Close()

	var results []types.FoodSummary
	for rows.Next() {
		dest, scanned := scanTargets(3 + len(columns))
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, types.FoodSummary{
			Code:        scanned[0].String,
			Name:        scanned[1].String,
			EnglishName: scanned[2].String,
			Values:      composition(columns, scanned[3:]),
		})
	}
	return results, rows.Err()
}

// AllFoods returns every food with its units, ordered by code.
func (s *Store) AllFoods(ctx context.Context) ([]types.FoodItem, error) {
	cols := nutrientColumns()
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, english_name, `+strings.Join(cols, ", ")+` FROM foods ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("querying foods: %w", err)
	}
	defer rows.Close()

	var items []types.FoodItem
	index := map[string]int{}
	for rows.Next() {
		dest, scanned := scanTargets(3 + len(cols))
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		index[scanned[0].String] = len(items)
		items = append(items, types.FoodItem{
			Code:        scanned[0].String,
			Name:        scanned[1].String,
			EnglishName: scanned[2].String,
			Nutrients:   composition(catalogKeys(), scanned[3:]),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	urows, err := s.db.QueryContext(ctx,
		`SELECT fu.food_code, fu.unit_code, COALESCE(u.name, fu.unit_code), fu.grams
		 FROM food_units fu
		 LEFT JOIN units u ON u.code = fu.unit_code
		 ORDER BY fu.food_code, 3`)
	if err != nil {
		return nil, fmt.Errorf("querying food units: %w", err)
	}
	defer urows.Close()
	for urows.Next() {
		var (
			food string
			u    types.Unit
		)
		if err := urows.Scan(&food, &u.Code, &u.Name, &u.Grams); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		if i, ok := index[food]; ok {
			items[i].Units = append(items[i].Units, u)
		}
	}
	return items, urows.Err()
}

// SaveFood inserts or replaces a food and its nutrient literals. Units are
// stored separately with SaveFoodUnit.
func (s *Store) SaveFood(ctx context.Context, f types.FoodItem) error {
	return insertFood(ctx, s.db, f)
}

// SaveUnit inserts or replaces a unit name.
func (s *Store) SaveUnit(ctx context.Context, code, name string) error {
	return insertUnit(ctx, s.db, code, name)
}

// SaveFoodUnit records the weight of one unit of a food.
func (s *Store) SaveFoodUnit(ctx context.Context, foodCode, unitCode string, grams float64) error {
	return insertFoodUnit(ctx, s.db, foodCode, unitCode, grams)
}

func insertFood(ctx context.Context, db execer, f types.FoodItem) error {
	cols := nutrientColumns()
	args := make([]any, 0, 3+len(cols))
	args = append(args, f.Code, f.Name, nullString(f.EnglishName))
	for _, info := range types.Nutrients {
		args = append(args, nullString(f.Nutrients.Literal(info.Key)))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO foods (code, name, english_name, `+strings.Join(cols, ", ")+`)
		 VALUES (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("inserting food %s: %w", f.Code, err)
	}
	return nil
}

func insertUnit(ctx context.Context, db execer, code, name string) error {
	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO units (code, name) VALUES (?, ?)`, code, name); err != nil {
		return fmt.Errorf("inserting unit %s: %w", code, err)
	}
	return nil
}

func insertFoodUnit(ctx context.Context, db execer, foodCode, unitCode string, grams float64) error {
	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO food_units (food_code, unit_code, grams) VALUES (?, ?, ?)`,
		foodCode, unitCode, grams); err != nil {
		return fmt.Errorf("inserting unit %s for %s: %w", unitCode, foodCode, err)
	}
	return nil
}

func catalogKeys() []types.Nutrient {
	keys := make([]types.Nutrient, len(types.Nutrients))
	for i, info := range types.Nutrients {
		keys[i] = info.Key
	}
	return keys
}

func scanTargets(n int) ([]any, []sql.NullString) {
	vals := make([]sql.NullString, n)
	dest := make([]any, n)
	for i := range vals {
		dest[i] = &vals[i]
	}
	return dest, vals
}

// composition keeps the non-empty literals, so absent stays absent.
func composition(keys []types.Nutrient, vals []sql.NullString) types.Composition {
	c := make(types.Composition, len(keys))
	for i, k := range keys {
		if !vals[i].Valid {
			continue
		}
		if lit := strings.TrimSpace(vals[i].String); lit != "" {
			c[k] = lit
		}
	}
	return c
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
