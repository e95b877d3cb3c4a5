package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jot/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show jot build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("jot %s\n", version.Version)
		if version.GitCommit != "" {
			fmt.Printf("  commit: %s\n", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Printf("  built:  %s\n", version.BuildDate)
		}
		return nil
	},
}
