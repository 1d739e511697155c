// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of nutrilabel",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput(cmd) {
			return printJSON(map[string]string{"version": version})
		}
		fmt.Printf("nutrilabel %s\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
