package main

import (
	"context"

	"github.com/aretw0/protocolfill/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill a template with answers",
	Long: `Fills a spreadsheet template with the answers of one questionnaire.

The template comes either from files (--template and --questions) or from a
template store directory (--store, --type and --lang), optionally with the
question configs in a loam repository (--questions-repo).`,
	Example: `  protocolfill generate --template boiler.xlsx --questions boiler.yaml --answers session.yaml -o out.xlsx
  protocolfill generate --store ./templates --type boiler --lang de --answers session.yaml -o out.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.GenerateOptions{}
		opts.Template, _ = flags.GetString("template")
		opts.Questions, _ = flags.GetString("questions")
		opts.StoreDir, _ = flags.GetString("store")
		opts.QuestionsRepo, _ = flags.GetString("questions-repo")
		opts.TemplateType, _ = flags.GetString("type")
		opts.SessionID, _ = flags.GetString("session")
		opts.Answers, _ = flags.GetString("answers")
		opts.Output, _ = flags.GetString("output")
		opts.Language, _ = flags.GetString("lang")
		opts.Signature, _ = flags.GetString("signature")
		opts.Sheet, _ = flags.GetString("sheet")

		return withEnv(cmd, func(env *cli.Env) error {
			ctx := cli.NewSignalContext(context.Background())
			defer ctx.Cancel()
			return cli.RunGenerate(ctx, env, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("template", "", "Template spreadsheet file")
	generateCmd.Flags().String("questions", "", "Question configuration file (YAML or JSON)")
	generateCmd.Flags().String("store", "", "Template store directory")
	generateCmd.Flags().String("questions-repo", "", "Loam repository holding question configs")
	generateCmd.Flags().String("type", "", "Template type to load from the store")
	generateCmd.Flags().String("session", "", "Session id for reported protocol errors")
	generateCmd.Flags().StringP("answers", "a", "", "Answers file (YAML or JSON)")
	generateCmd.Flags().StringP("output", "o", "", "Output document path")
	generateCmd.Flags().String("lang", "", "Language of the template and error texts")
	generateCmd.Flags().String("signature", "", "Name written to the signature cell")
	generateCmd.Flags().String("sheet", "", "Worksheet name to fill (default: first sheet)")
	_ = generateCmd.MarkFlagRequired("answers")
	_ = generateCmd.MarkFlagRequired("output")
}
