package main

import (
	"github.com/aretw0/protocolfill/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <questions.yaml>",
	Short: "Check a question configuration",
	Long:  `Reports unknown types, duplicate ids, bad cell references, undeclared formula inputs and dependency cycles.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *cli.Env) error {
			return cli.RunValidate(env, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
