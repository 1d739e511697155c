// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrilabel/internal/predicate"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Look up, scale, and search foods in the catalog",
}

// --- search subcommand ---

var foodSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find foods whose name contains a term",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFoodSearch,
}

func runFoodSearch(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	foods, err := e.store.SearchByName(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(foods)
	}
	printFoods(os.Stdout, foods, nil)
	return nil
}

// --- show subcommand ---

var foodShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show a food's nutrients for a serving",
	Long: `Show scales a food's per-100 g values to a serving. The serving is
--amount of --unit, where the unit is a code or name from "food units"
or g for grams. Values keep the precision they were measured with.`,
	Args: cobra.ExactArgs(1),
	RunE: runFoodShow,
}

func runFoodShow(cmd *cobra.Command, args []string) error {
	amount, _ := cmd.Flags().GetFloat64("amount")
	unit, _ := cmd.Flags().GetString("unit")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.calc.Portion(context.Background(), args[0], amount, unit)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(p)
	}

	fmt.Printf("%s  %s", p.Food.Code, p.Food.Name)
	if p.Food.EnglishName != "" {
		fmt.Printf(" (%s)", p.Food.EnglishName)
	}
	fmt.Println()
	fmt.Printf("Serving: %g %s = %g g\n\n", p.Amount, p.Unit.Name, p.Grams)
	printVector(os.Stdout, p.Nutrients)
	return nil
}

// --- units subcommand ---

var foodUnitsCmd = &cobra.Command{
	Use:   "units <code>",
	Short: "List the household units defined for a food",
	Args:  cobra.ExactArgs(1),
	RunE:  runFoodUnits,
}

func runFoodUnits(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	units, err := e.store.FoodUnits(context.Background(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(units)
	}
	if len(units) == 0 {
		fmt.Println("No units defined; use grams.")
		return nil
	}
	fmt.Printf("%-8s %-30s %10s\n", "CODE", "NAME", "GRAMS")
	fmt.Println(strings.Repeat("-", 50))
	for _, u := range units {
		fmt.Printf("%-8s %-30s %10g\n", u.Code, truncate(u.Name, 30), u.Grams)
	}
	return nil
}

// --- query subcommand ---

var foodQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search foods by nutrient conditions",
	Long: `Query filters foods with nutrient conditions combined strictly left to
right. Each --where is field:op:value[:value2][:and|or], where op is one
of eq, gt, lt, gte, lte, between, and the trailing connective joins the
condition to the next one:

  nutrilabel food query --where protein:gt:20:and --where sodium:lt:100

Conditions that do not parse or name an unknown nutrient are skipped with
a warning. --file loads a saved search; --save writes the conditions used.`,
	RunE: runFoodQuery,
}

func runFoodQuery(cmd *cobra.Command, args []string) error {
	wheres, _ := cmd.Flags().GetStringArray("where")
	file, _ := cmd.Flags().GetString("file")
	save, _ := cmd.Flags().GetString("save")
	colFlags, _ := cmd.Flags().GetStringSlice("columns")

	var conds []types.SearchCondition
	var columns []types.Nutrient
	if file != "" {
		cf, err := predicate.ReadConditionFile(file)
		if err != nil {
			return err
		}
		conds = append(conds, cf.Conditions...)
		columns = cf.Columns
	}
	for _, w := range wheres {
		c, err := predicate.ParseCondition(w)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %q: %v\n", w, err)
			continue
		}
		conds = append(conds, c)
	}
	if len(colFlags) > 0 {
		columns = nil
		for _, s := range colFlags {
			n, err := types.ParseNutrient(s)
			if err != nil {
				return err
			}
			columns = append(columns, n)
		}
	}

	p := predicate.Build(conds)
	for _, err := range p.Skipped {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if p.Empty() {
		return fmt.Errorf("no usable conditions")
	}

	if save != "" {
		if err := predicate.WriteConditionFile(save, conds, columns); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved search to %s\n", save)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	foods, err := e.store.Search(context.Background(), p, columns)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(foods)
	}
	if len(columns) == 0 {
		columns = p.Fields()
	}
	fmt.Fprintf(os.Stderr, "Where %s\n", p)
	printFoods(os.Stdout, foods, columns)
	return nil
}

// --- compare subcommand ---

var foodCompareCmd = &cobra.Command{
	Use:   "compare <code> <code>...",
	Short: "Compare foods at the same weight",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runFoodCompare,
}

func runFoodCompare(cmd *cobra.Command, args []string) error {
	grams, _ := cmd.Flags().GetFloat64("grams")
	sortBy, _ := cmd.Flags().GetString("sort")

	var key types.Nutrient
	if sortBy != "" {
		n, err := types.ParseNutrient(sortBy)
		if err != nil {
			return err
		}
		key = n
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	portions, err := e.calc.Compare(context.Background(), args, grams, key)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(portions)
	}

	shown := []types.Nutrient{types.FoodEnergy, types.Protein, types.TotalFat, types.Carbohydrates, types.TotalSugars, types.Sodium}
	if key != "" && !containsNutrient(shown, key) {
		shown = append(shown, key)
	}
	fmt.Printf("Per %g g\n", grams)
	fmt.Printf("%-10s %-30s", "CODE", "NAME")
	for _, n := range shown {
		fmt.Printf(" %12s", truncate(string(n), 12))
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", 41+13*len(shown)))
	for _, p := range portions {
		fmt.Printf("%-10s %-30s", p.Food.Code, truncate(p.Food.Name, 30))
		for _, n := range shown {
			fmt.Printf(" %12s", formatOptional(p.Nutrients, n))
		}
		fmt.Println()
	}
	return nil
}

// --- export subcommand ---

var foodExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as YAML or JSON",
	RunE:  runFoodExport,
}

func runFoodExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if jsonOutput(cmd) {
		format = "json"
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	ctx := context.Background()
	switch format {
	case "yaml":
		err = e.store.ExportYAML(ctx, w)
	case "json":
		err = e.store.ExportJSON(ctx, w)
	default:
		return fmt.Errorf("unsupported format %q (use yaml or json)", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported catalog to %s\n", output)
	}
	return nil
}

// printFoods writes a food table, adding one column per requested nutrient.
func printFoods(w io.Writer, foods []types.FoodSummary, columns []types.Nutrient) {
	if len(foods) == 0 {
		fmt.Fprintln(w, "No foods found.")
		return
	}
	fmt.Fprintf(w, "%-10s %-40s", "CODE", "NAME")
	for _, n := range columns {
		fmt.Fprintf(w, " %12s", truncate(string(n), 12))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 51+13*len(columns)))
	for _, f := range foods {
		name := f.Name
		if f.EnglishName != "" {
			name += " / " + f.EnglishName
		}
		fmt.Fprintf(w, "%-10s %-40s", f.Code, truncate(name, 40))
		for _, n := range columns {
			lit := f.Values.Literal(n)
			if lit == "" {
				lit = "-"
			}
			fmt.Fprintf(w, " %12s", lit)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n%d food(s)\n", len(foods))
}

// printVector writes present nutrients in catalog order with their units.
func printVector(w io.Writer, v types.Vector) {
	if len(v) == 0 {
		fmt.Fprintln(w, "No nutrient data.")
		return
	}
	fmt.Fprintf(w, "%-28s %14s %-5s\n", "NUTRIENT", "VALUE", "UNIT")
	fmt.Fprintln(w, strings.Repeat("-", 49))
	for _, n := range v.Keys() {
		name, unit := string(n), ""
		if info, ok := n.Lookup(); ok {
			name, unit = info.Name, info.Unit
		}
		fmt.Fprintf(w, "%-28s %14g %-5s\n", truncate(name, 28), v[n], unit)
	}
}

func formatOptional(v types.Vector, n types.Nutrient) string {
	f, ok := v.Lookup(n)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%g", f)
}

func containsNutrient(ns []types.Nutrient, n types.Nutrient) bool {
	for _, x := range ns {
		if x == n {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func init() {
	foodShowCmd.Flags().Float64("amount", 100, "serving amount in --unit")
	foodShowCmd.Flags().String("unit", "g", "unit code or name (default grams)")

	foodQueryCmd.Flags().StringArray("where", nil, "condition field:op:value[:value2][:and|or] (repeatable)")
	foodQueryCmd.Flags().String("file", "", "load conditions from a saved search file")
	foodQueryCmd.Flags().String("save", "", "save the conditions to a search file")
	foodQueryCmd.Flags().StringSlice("columns", nil, "nutrient columns to show (default: the queried fields)")

	foodCompareCmd.Flags().Float64("grams", 100, "weight to compare at")
	foodCompareCmd.Flags().String("sort", "", "sort by this nutrient, highest first")

	foodExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	foodExportCmd.Flags().String("output", "", "write to a file instead of stdout")

	foodCmd.AddCommand(foodSearchCmd)
	foodCmd.AddCommand(foodShowCmd)
	foodCmd.AddCommand(foodUnitsCmd)
	foodCmd.AddCommand(foodQueryCmd)
	foodCmd.AddCommand(foodCompareCmd)
	foodCmd.AddCommand(foodExportCmd)

	rootCmd.AddCommand(foodCmd)
}
