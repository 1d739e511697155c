// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the food composition catalog, unit
// conversions, cooking retention profiles and stored recipes in SQLite.
// Nutrient values are stored as the decimal literals they were published
// with so significant figures survive storage.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the catalog database at cfg.DBPath and creates
// the schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// quote returns n as a quoted SQL identifier.
func quote(n types.Nutrient) string {
	return `"` + string(n) + `"`
}

// valueExpr is the numeric view of a stored nutrient literal. Empty
// literals read as NULL so comparisons on them are never true.
func valueExpr(n types.Nutrient) string {
	return "CAST(NULLIF(TRIM(" + quote(n) + "),'') AS REAL)"
}

func nutrientColumns() []string {
	cols := make([]string, len(types.Nutrients))
	for i, info := range types.Nutrients {
		cols[i] = quote(info.Key)
	}
	return cols
}

func (s *Store) createSchema() error {
	var foods strings.Builder
	foods.WriteString("CREATE TABLE IF NOT EXISTS foods (\n\t\t\tcode TEXT PRIMARY KEY,\n\t\t\tname TEXT NOT NULL,\n\t\t\tenglish_name TEXT")
	for _, col := range nutrientColumns() {
		foods.WriteString(",\n\t\t\t" + col + " TEXT")
	}
	foods.WriteString("\n\t\t)")

	statements := []string{
		foods.String(),
		`CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name)`,
		`CREATE TABLE IF NOT EXISTS units (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS food_units (
			food_code TEXT NOT NULL,
			unit_code TEXT NOT NULL,
			grams REAL NOT NULL,
			PRIMARY KEY (food_code, unit_code)
		)`,
		`CREATE TABLE IF NOT EXISTS retention_profiles (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			local_name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS retention_factors (
			profile_code TEXT NOT NULL,
			nutrient TEXT NOT NULL,
			percent REAL NOT NULL,
			PRIMARY KEY (profile_code, nutrient)
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			code TEXT PRIMARY KEY,
			fluid_loss_pct REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_components (
			recipe_code TEXT NOT NULL,
			position INTEGER NOT NULL,
			ingredient_code TEXT NOT NULL,
			grams REAL NOT NULL,
			loss_pct REAL NOT NULL DEFAULT 0,
			retention_code TEXT,
			oil_code TEXT,
			oil_pct REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (recipe_code, position)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Stats holds row counts per catalog table.
type Stats struct {
	Foods             int `json:"foods" yaml:"foods"`
	Units             int `json:"units" yaml:"units"`
	FoodUnits         int `json:"food_units" yaml:"food_units"`
	RetentionProfiles int `json:"retention_profiles" yaml:"retention_profiles"`
	Recipes           int `json:"recipes" yaml:"recipes"`
	RecipeComponents  int `json:"recipe_components" yaml:"recipe_components"`
}

// Stats counts the rows of every catalog table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	counts := []struct {
		table string
		dst   *int
	}{
		{"foods", &st.Foods},
		{"units", &st.Units},
		{"food_units", &st.FoodUnits},
		{"retention_profiles", &st.RetentionProfiles},
		{"recipes", &st.Recipes},
		{"recipe_components", &st.RecipeComponents},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM "+c.table).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("counting %s: %w", c.table, err)
		}
	}
	return st, nil
}
