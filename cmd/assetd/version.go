package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memohai/assetd/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "assetd %s\n", info)
		if info.BuildTime != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", info.BuildTime)
		}
	},
}
