// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrilabel/internal/calc"
	"github.com/pdiddy/nutrilabel/internal/label"
)

var mixCmd = &cobra.Command{
	Use:   "mix <file.yaml>",
	Short: "Compute a hand-assembled mix described in a YAML file",
	Long: `Mix reads a YAML mix description and runs the recipe pipeline on it:

  name: breaded schnitzel
  fluid_loss_pct: 15
  components:
    - food: "100"
      grams: 150
      retention: "5001"
      oil: {food: "82108000", pct: 10}
    - food: "200"
      amount: 2
      unit: tablespoon`,
	Args: cobra.ExactArgs(1),
	RunE: runMix,
}

func runMix(cmd *cobra.Command, args []string) error {
	res, err := computeMixFile(args[0], cmd)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(res)
	}
	printResult(res)
	return nil
}

var labelCmd = &cobra.Command{
	Use:   "label <file.yaml>",
	Short: "Print only the front-of-package label for a mix file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabel,
}

func runLabel(cmd *cobra.Command, args []string) error {
	res, err := computeMixFile(args[0], cmd)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(struct {
			Name       string           `json:"name,omitempty"`
			Liquid     bool             `json:"liquid"`
			Thresholds label.Thresholds `json:"thresholds"`
			Tags       []label.Tag      `json:"tags"`
		}{res.Name, res.Liquid, label.For(res.Liquid), res.Tags})
	}
	printTags(res.Tags)
	return nil
}

func computeMixFile(path string, cmd *cobra.Command) (calc.Result, error) {
	mf, err := calc.ReadMixFile(path)
	if err != nil {
		return calc.Result{}, err
	}
	if cmd.Flags().Changed("liquid") {
		mf.Liquid, _ = cmd.Flags().GetBool("liquid")
	}

	e, err := openEnv()
	if err != nil {
		return calc.Result{}, err
	}
	defer e.Close()

	return e.calc.Mix(context.Background(), *mf)
}

func printTags(tags []label.Tag) {
	if len(tags) == 0 {
		fmt.Println("Label: none")
		return
	}
	fmt.Println("Label:")
	for _, t := range tags {
		fmt.Printf("  %s\n", t)
	}
}

func init() {
	mixCmd.Flags().Bool("liquid", false, "classify as a drink (overrides the file)")
	labelCmd.Flags().Bool("liquid", false, "classify as a drink (overrides the file)")

	rootCmd.AddCommand(mixCmd)
	rootCmd.AddCommand(labelCmd)
}
