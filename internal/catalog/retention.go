// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// GetRetentionProfile returns the retention profile with the given code
// and its per-nutrient percentages.
func (s *Store) GetRetentionProfile(ctx context.Context, code string) (*types.RetentionProfile, error) {
	var (
		p     types.RetentionProfile
		local sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT code, name, local_name FROM retention_profiles WHERE code = ?`, code,
	).Scan(&p.Code, &p.Name, &local)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("retention profile %s: %w", code, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up retention profile %s: %w", code, err)
	}
	p.LocalName = local.String

	rows, err := s.db.QueryContext(ctx,
		`SELECT nutrient, percent FROM retention_factors WHERE profile_code = ?`, code)
	if err != nil {
		return nil, fmt.Errorf("querying retention factors: %w", err)
	}
	defer rows.Close()

	p.Factors = map[types.Nutrient]float64{}
	for rows.Next() {
		var (
			n   string
			pct float64
		)
		if err := rows.Scan(&n, &pct); err != nil {
			return nil, fmt.Errorf("scanning retention factor: %w", err)
		}
		p.Factors[types.Nutrient(n)] = pct
	}
	return &p, rows.Err()
}

// ListRetentionProfiles returns profiles whose name or local name contains
// text, ordered by code. Factors are not loaded.
func (s *Store) ListRetentionProfiles(ctx context.Context, text string) ([]types.RetentionProfile, error) {
	like := "%" + strings.TrimSpace(text) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, local_name FROM retention_profiles
		 WHERE name LIKE ? OR local_name LIKE ?
		 ORDER BY code`, like, like)
	if err != nil {
		return nil, fmt.Errorf("listing retention profiles: %w", err)
	}
	defer rows.Close()

	var profiles []types.RetentionProfile
	for rows.Next() {
		var (
			p     types.RetentionProfile
			local sql.NullString
		)
		if err := rows.Scan(&p.Code, &p.Name, &local); err != nil {
			return nil, fmt.Errorf("scanning retention profile: %w", err)
		}
		p.LocalName = local.String
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// SaveRetentionProfile inserts or replaces a profile and its factors.
func (s *Store) SaveRetentionProfile(ctx context.Context, p types.RetentionProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRetentionProfile(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRetentionProfile(ctx context.Context, db execer, p types.RetentionProfile) error {
	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO retention_profiles (code, name, local_name) VALUES (?, ?, ?)`,
		p.Code, p.Name, nullString(p.LocalName)); err != nil {
		return fmt.Errorf("inserting retention profile %s: %w", p.Code, err)
	}
	if _, err := db.ExecContext(ctx,
		`DELETE FROM retention_factors WHERE profile_code = ?`, p.Code); err != nil {
		return fmt.Errorf("clearing retention factors for %s: %w", p.Code, err)
	}
	for n, pct := range p.Factors {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO retention_factors (profile_code, nutrient, percent) VALUES (?, ?, ?)`,
			p.Code, string(n), pct); err != nil {
			return fmt.Errorf("inserting retention factor %s/%s: %w", p.Code, n, err)
		}
	}
	return nil
}
