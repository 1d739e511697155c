// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrilabel/internal/catalog"
	"github.com/pdiddy/nutrilabel/internal/httputil"
)

var importCmd = &cobra.Command{
	Use:   "import <dir|file|url>...",
	Short: "Load food composition tables into the catalog",
	Long: `Import reads the published source tables (products, units, conversions,
retentions, recipes) from directories, files, or http(s) URLs and replaces
the matching catalog tables. Each file loads in its own transaction, so a
file that fails leaves its table as it was.

Files may be comma or tab separated, in UTF-8, UTF-16, windows-1255, or
ISO-8859-8.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var progress io.Writer = os.Stdout
	if jsonOutput(cmd) {
		progress = os.Stderr
	}

	im := catalog.NewImporter(e.store, httputil.New(e.cfg.Import, e.log), e.log)
	summary, err := im.Import(ctx, progress, args...)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		if err := printJSON(summary); err != nil {
			return err
		}
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed to import", summary.Failed)
	}
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog row counts",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st, err := e.store.Stats(context.Background())
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(st)
	}
	fmt.Printf("Catalog: %s\n", e.cfg.Catalog.DBPath)
	fmt.Printf("  foods:              %d\n", st.Foods)
	fmt.Printf("  units:              %d\n", st.Units)
	fmt.Printf("  food units:         %d\n", st.FoodUnits)
	fmt.Printf("  retention profiles: %d\n", st.RetentionProfiles)
	fmt.Printf("  recipes:            %d (%d components)\n", st.Recipes, st.RecipeComponents)
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
}
