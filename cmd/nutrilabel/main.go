// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nutrilabel CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/nutrilabel/internal/calc"
	"github.com/pdiddy/nutrilabel/internal/catalog"
	"github.com/pdiddy/nutrilabel/internal/logging"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the nutrilabel CLI.
var rootCmd = &cobra.Command{
	Use:   "nutrilabel",
	Short: "Nutrition calculations over a national food composition catalog",
	Long: `nutrilabel computes nutrient values for foods, recipes, and hand-built
mixes from a local SQLite food composition catalog, and classifies the
result against front-of-package "high in" label thresholds.

Load the catalog once with import, then query foods, scale portions, sum
a day's intake, or cook a recipe. serve exposes the same operations as a
JSON HTTP API.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nutrilabel.yaml or ~/.config/nutrilabel/nutrilabel.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite catalog path (overrides catalog.db_path)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides log.level)")
	rootCmd.PersistentFlags().Bool("json", false, "output results as JSON")

	_ = viper.BindPFlag("catalog.db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nutrilabel")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nutrilabel"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("NUTRILABEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so AutomaticEnv can override it
// during Unmarshal.
func setDefaults(d types.Config) {
	viper.SetDefault("catalog.db_path", d.Catalog.DBPath)
	viper.SetDefault("catalog.max_results", d.Catalog.MaxResults)
	viper.SetDefault("import.timeout", d.Import.Timeout)
	viper.SetDefault("import.user_agent", d.Import.UserAgent)
	viper.SetDefault("import.max_retries", d.Import.MaxRetries)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.development", d.Log.Development)
}

// loadConfig resolves flags, environment, config file, and defaults.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// env bundles what most commands need: configuration, a logger, the
// catalog, and a calculator over it.
type env struct {
	cfg   types.Config
	log   *zap.Logger
	store *catalog.Store
	calc  *calc.Calculator
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	store, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, store: store, calc: calc.New(store, log)}, nil
}

func (e *env) Close() {
	_ = e.log.Sync()
	_ = e.store.Close()
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
