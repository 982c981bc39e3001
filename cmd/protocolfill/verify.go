package main

import (
	"github.com/aretw0/protocolfill/internal/cli"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:     "verify <document.xlsx>",
	Short:   "Read cells back from a generated document",
	Long:    `Opens a document with a full spreadsheet reader and prints cell values. With --expect, fails when a cell differs.`,
	Example: `  protocolfill verify out.xlsx --cell D12 --expect D13=7`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.VerifyOptions{Document: args[0]}
		opts.Sheet, _ = flags.GetString("sheet")
		opts.Cells, _ = flags.GetStringSlice("cell")
		opts.Expect, _ = flags.GetStringArray("expect")

		return withEnv(cmd, func(env *cli.Env) error {
			return cli.RunVerify(env, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().String("sheet", "", "Worksheet name (default: first sheet)")
	verifyCmd.Flags().StringSlice("cell", nil, "Cells to print (default: all non-empty)")
	verifyCmd.Flags().StringArray("expect", nil, "Expected value as REF=value (repeatable)")
}
