package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/protocolfill"
	"github.com/aretw0/protocolfill/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of protocolfill",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if tui.IsTerminal(out) {
			tui.PrintBanner(out)
		}
		fmt.Fprintf(out, "protocolfill version %s\n", strings.TrimSpace(protocolfill.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
