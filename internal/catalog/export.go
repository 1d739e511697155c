// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Nutrients []types.NutrientInfo     `json:"nutrients" yaml:"nutrients"`
	Foods     []types.FoodItem         `json:"foods" yaml:"foods"`
	Retention []types.RetentionProfile `json:"retention_profiles,omitempty" yaml:"retention_profiles,omitempty"`
}

// ExportYAML writes the whole catalog to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	doc, err := s.export(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the whole catalog to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	doc, err := s.export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) export(ctx context.Context) (*Export, error) {
	foods, err := s.AllFoods(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	profiles, err := s.ListRetentionProfiles(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	for i := range profiles {
		full, err := s.GetRetentionProfile(ctx, profiles[i].Code)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		profiles[i] = *full
	}
	return &Export{Nutrients: types.Nutrients, Foods: foods, Retention: profiles}, nil
}
