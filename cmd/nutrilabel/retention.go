// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrilabel/pkg/types"
)

var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Browse cooking retention profiles",
}

var retentionListCmd = &cobra.Command{
	Use:   "list [text]",
	Short: "List retention profiles, optionally filtered by name",
	RunE:  runRetentionList,
}

func runRetentionList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	profiles, err := e.store.ListRetentionProfiles(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(profiles)
	}
	if len(profiles) == 0 {
		fmt.Println("No retention profiles found.")
		return nil
	}
	fmt.Printf("%-8s %-40s %s\n", "CODE", "NAME", "LOCAL NAME")
	fmt.Println(strings.Repeat("-", 70))
	for _, p := range profiles {
		fmt.Printf("%-8s %-40s %s\n", p.Code, truncate(p.Name, 40), p.LocalName)
	}
	return nil
}

var retentionShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show the retention factors of a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runRetentionShow,
}

func runRetentionShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.store.GetRetentionProfile(context.Background(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(p)
	}
	fmt.Printf("%s  %s\n\n", p.Code, p.Name)
	factors := make(types.Vector, len(p.Factors))
	for n, pct := range p.Factors {
		factors[n] = pct
	}
	fmt.Fprintln(os.Stdout, "Retained percentage per nutrient:")
	printVector(os.Stdout, factors)
	return nil
}

func init() {
	retentionCmd.AddCommand(retentionListCmd)
	retentionCmd.AddCommand(retentionShowCmd)
	rootCmd.AddCommand(retentionCmd)
}
