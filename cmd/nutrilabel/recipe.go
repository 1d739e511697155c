// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrilabel/internal/calc"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Compute cooked recipes from the recipe table",
}

var recipeShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Cook a catalog recipe and show its per-100 values and label",
	Long: `Show loads a recipe's components, applies loss, retention, and
absorbed oil to each one, removes the recipe's fluid loss, and prints the
cooked product per 100 g (or per 100 ml with --liquid) with its label.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecipeShow,
}

func runRecipeShow(cmd *cobra.Command, args []string) error {
	liquid, _ := cmd.Flags().GetBool("liquid")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.calc.Recipe(context.Background(), args[0], liquid)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(res)
	}
	printResult(res)
	return nil
}

var recipeExportCmd = &cobra.Command{
	Use:   "export <code> <file.yaml>",
	Short: "Write a catalog recipe as an editable mix file",
	Long: `Export writes a stored recipe in the mix file format, so it can be
edited and recomputed with "nutrilabel mix".`,
	Args: cobra.ExactArgs(2),
	RunE: runRecipeExport,
}

func runRecipeExport(cmd *cobra.Command, args []string) error {
	liquid, _ := cmd.Flags().GetBool("liquid")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	mf, err := e.calc.RecipeMixFile(context.Background(), args[0], liquid)
	if err != nil {
		return err
	}
	if err := calc.WriteMixFile(args[1], mf); err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(mf)
	}
	fmt.Printf("Wrote recipe %s (%d components) to %s\n", args[0], len(mf.Components), args[1])
	return nil
}

// printResult writes a cooked recipe or mix.
func printResult(res calc.Result) {
	if res.Name != "" {
		fmt.Println(res.Name)
	}
	fmt.Printf("%-10s %-30s %10s %7s %-8s %-10s %8s\n", "CODE", "NAME", "GRAMS", "LOSS%", "RETAIN", "OIL", "OIL G")
	fmt.Println(strings.Repeat("-", 90))
	for _, c := range res.Components {
		fmt.Printf("%-10s %-30s %10g %7g %-8s %-10s %8g\n",
			c.Code, truncate(c.Name, 30), c.Grams, c.LossPct, c.Retention, c.OilCode, c.OilGrams)
	}
	fmt.Printf("\nRaw mass %g g, fluid loss %g%%, final mass %g g\n\n", res.RawMass, res.FluidLossPct, res.FinalMass)

	per := "100 g"
	if res.Liquid {
		per = "100 ml"
	}
	fmt.Printf("Per %s:\n", per)
	printVector(os.Stdout, res.Per100)
	fmt.Println()
	printTags(res.Tags)
}

func init() {
	recipeShowCmd.Flags().Bool("liquid", false, "classify as a drink (per 100 ml thresholds)")
	recipeExportCmd.Flags().Bool("liquid", false, "mark the mix file as a drink")

	recipeCmd.AddCommand(recipeShowCmd)
	recipeCmd.AddCommand(recipeExportCmd)
	rootCmd.AddCommand(recipeCmd)
}
