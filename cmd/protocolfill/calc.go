package main

import (
	"github.com/aretw0/protocolfill/internal/cli"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:     "calc",
	Short:   "Preview calculated values",
	Long:    `Evaluates the calculated questions of a configuration against measurement values, without producing a document.`,
	Example: `  protocolfill calc --questions boiler.yaml --set pressure=4,5 --set temperature=60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.CalcOptions{}
		opts.Questions, _ = flags.GetString("questions")
		opts.Answers, _ = flags.GetString("answers")
		opts.Set, _ = flags.GetStringArray("set")
		opts.Language, _ = flags.GetString("lang")
		opts.Graph, _ = flags.GetBool("graph")

		return withEnv(cmd, func(env *cli.Env) error {
			return cli.RunCalc(env, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().String("questions", "", "Question configuration file (YAML or JSON)")
	calcCmd.Flags().StringP("answers", "a", "", "Answers file to take measurement values from")
	calcCmd.Flags().StringArray("set", nil, "Measurement value as id=value (repeatable)")
	calcCmd.Flags().String("lang", "", "Language of the error texts")
	calcCmd.Flags().Bool("graph", false, "Print the dependency graph as Mermaid instead of the table")
	_ = calcCmd.MarkFlagRequired("questions")
}
