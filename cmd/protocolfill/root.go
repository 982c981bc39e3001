package main

import (
	"fmt"
	"os"

	"github.com/aretw0/protocolfill/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "protocolfill",
	Short: "Fill inspection protocol spreadsheets from questionnaire answers",
	Long: `protocolfill writes questionnaire answers into the cells of a spreadsheet
template, evaluates calculated values and reports bound violations.
The template's styles, merges and extensions are left untouched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "protocolfill.yaml", "Settings file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this rotating file")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// setupEnv builds the command environment from the persistent flags.
func setupEnv(cmd *cobra.Command) (*cli.Env, error) {
	flags := cmd.Flags()
	settings, _ := flags.GetString("config")
	debug, _ := flags.GetBool("debug")
	logFile, _ := flags.GetString("log-file")
	metricsFile, _ := flags.GetString("metrics-file")

	return cli.Setup(cli.GlobalOptions{
		SettingsPath: settings,
		Debug:        debug,
		LogFile:      logFile,
		MetricsFile:  metricsFile,
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// withEnv runs fn with a fresh environment and closes it afterwards.
func withEnv(cmd *cobra.Command, fn func(env *cli.Env) error) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	runErr := fn(env)
	if err := env.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
