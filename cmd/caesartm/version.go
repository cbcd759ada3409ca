package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/caesartm"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of caesartm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "caesartm version %s\n", strings.TrimSpace(caesartm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
