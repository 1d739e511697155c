// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// GetRecipe returns the stored components of a recipe in position order
// together with its cooking fluid loss. Component references are not
// resolved.
func (s *Store) GetRecipe(ctx context.Context, code string) (types.Recipe, error) {
	r := types.Recipe{Code: code}
	var fluid sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT fluid_loss_pct FROM recipes WHERE code = ?`, code).Scan(&fluid)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return types.Recipe{}, fmt.Errorf("looking up recipe %s: %w", code, err)
	}
	r.FluidLossPct = fluid.Float64

	rows, err := s.db.QueryContext(ctx,
		`SELECT ingredient_code, grams, loss_pct, retention_code, oil_code, oil_pct
		 FROM recipe_components WHERE recipe_code = ? ORDER BY position`, code)
	if err != nil {
		return types.Recipe{}, fmt.Errorf("querying recipe %s: %w", code, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row       types.RecipeRow
			retention sql.NullString
			oil       sql.NullString
		)
		if err := rows.Scan(&row.IngredientCode, &row.Grams, &row.LossPct, &retention, &oil, &row.OilPct); err != nil {
			return types.Recipe{}, fmt.Errorf("scanning recipe component: %w", err)
		}
		row.RetentionCode = retention.String
		row.OilCode = oil.String
		r.Rows = append(r.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return types.Recipe{}, err
	}
	if len(r.Rows) == 0 {
		return types.Recipe{}, fmt.Errorf("recipe %s: %w", code, types.ErrNotFound)
	}
	return r, nil
}

// SaveRecipe replaces a recipe and its components.
func (s *Store) SaveRecipe(ctx context.Context, r types.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_components WHERE recipe_code = ?`, r.Code); err != nil {
		return fmt.Errorf("clearing recipe %s: %w", r.Code, err)
	}
	if err := insertRecipe(ctx, tx, r.Code, r.FluidLossPct); err != nil {
		return err
	}
	for i, row := range r.Rows {
		if err := insertRecipeComponent(ctx, tx, r.Code, i, row); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertRecipe(ctx context.Context, db execer, code string, fluidLossPct float64) error {
	if _, err := db.ExecContext(ctx,
		`INSERT INTO recipes (code, fluid_loss_pct) VALUES (?, ?)
		 ON CONFLICT(code) DO UPDATE SET fluid_loss_pct=excluded.fluid_loss_pct`,
		code, fluidLossPct); err != nil {
		return fmt.Errorf("inserting recipe %s: %w", code, err)
	}
	return nil
}

func insertRecipeComponent(ctx context.Context, db execer, recipe string, position int, row types.RecipeRow) error {
	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO recipe_components
			(recipe_code, position, ingredient_code, grams, loss_pct, retention_code, oil_code, oil_pct)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe, position, row.IngredientCode, row.Grams, row.LossPct,
		nullString(row.RetentionCode), nullString(row.OilCode), row.OilPct); err != nil {
		return fmt.Errorf("inserting component %d of recipe %s: %w", position, recipe, err)
	}
	return nil
}
