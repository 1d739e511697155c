// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrilabel/internal/calc"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

var dailyCmd = &cobra.Command{
	Use:   "daily <code=grams|code=amount:unit>...",
	Short: "Sum the nutrients of a day's portions",
	Long: `Daily scales each portion and adds them up. A portion is code=grams,
or code=amount:unit for a household unit of that food:

  nutrilabel daily 100=150 200=2:tablespoon`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDaily,
}

func runDaily(cmd *cobra.Command, args []string) error {
	entries := make([]calc.DailyEntry, 0, len(args))
	for _, a := range args {
		entry, err := parseDailyEntry(a)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.calc.DailyTotals(context.Background(), entries)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(d)
	}

	fmt.Printf("%-10s %-34s %10s\n", "CODE", "NAME", "GRAMS")
	fmt.Println(strings.Repeat("-", 56))
	for _, p := range d.Entries {
		fmt.Printf("%-10s %-34s %10g\n", p.Food.Code, truncate(p.Food.Name, 34), p.Grams)
	}
	fmt.Println()
	printVector(os.Stdout, d.Totals)
	return nil
}

// parseDailyEntry reads code=grams or code=amount:unit.
func parseDailyEntry(s string) (calc.DailyEntry, error) {
	code, qty, ok := strings.Cut(s, "=")
	code = strings.TrimSpace(code)
	if !ok || code == "" {
		return calc.DailyEntry{}, fmt.Errorf("portion %q: want code=grams or code=amount:unit", s)
	}
	amount, unit, _ := strings.Cut(qty, ":")
	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return calc.DailyEntry{}, fmt.Errorf("portion %q: %w", s, types.ErrInvalidQuantity)
	}
	return calc.DailyEntry{Code: code, Amount: v, Unit: strings.TrimSpace(unit)}, nil
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}
