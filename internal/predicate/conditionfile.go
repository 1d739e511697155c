// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package predicate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

// ConditionFile is the on-disk form of a saved advanced search, so a
// search can be rerun without retyping its conditions.
type ConditionFile struct {
	Conditions []types.SearchCondition `yaml:"conditions"`
	Columns    []types.Nutrient        `yaml:"columns,omitempty"`
	Saved      time.Time               `yaml:"saved,omitempty"`
}

// WriteConditionFile saves conditions and display columns to a YAML file.
func WriteConditionFile(path string, conds []types.SearchCondition, columns []types.Nutrient) error {
	cf := ConditionFile{
		Conditions: conds,
		Columns:    columns,
		Saved:      time.Now().UTC(),
	}
	data, err := yaml.Marshal(&cf)
	if err != nil {
		return fmt.Errorf("marshaling condition file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadConditionFile loads a saved search from disk.
func ReadConditionFile(path string) (*ConditionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading condition file: %w", err)
	}
	var cf ConditionFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing condition file: %w", err)
	}
	return &cf, nil
}
