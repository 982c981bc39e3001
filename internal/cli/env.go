// Package cli implements the protocolfill commands. The cobra layer in
// cmd/protocolfill only parses flags and calls into this package.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/protocolfill"
	"github.com/aretw0/protocolfill/internal/logging"
	"github.com/aretw0/protocolfill/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	SettingsPath string
	Debug        bool
	LogFile      string
	MetricsFile  string
}

// Env is what every command needs: settings, a logger and a metrics registry.
type Env struct {
	Settings config.Settings
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Stdout   io.Writer

	metricsFile string
	closer      io.Closer
}

// Setup loads the settings and builds the logger.
func Setup(opts GlobalOptions, stdout, stderr io.Writer) (*Env, error) {
	settings, err := config.LoadSettings(opts.SettingsPath)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:  logging.ParseLevel(settings.LogLevel),
		Format: settings.LogFormat,
		File:   settings.LogFile,
		Output: stderr,
	}
	if opts.Debug {
		logCfg.Level = slog.LevelDebug
	}
	if opts.LogFile != "" {
		logCfg.File = opts.LogFile
	}
	logger, closer := logging.Open(logCfg)

	return &Env{
		Settings:    settings,
		Logger:      logger,
		Registry:    prometheus.NewRegistry(),
		Stdout:      stdout,
		metricsFile: opts.MetricsFile,
		closer:      closer,
	}, nil
}

// Close flushes the metrics file, if any, and releases the log file.
func (e *Env) Close() error {
	var err error
	if e.metricsFile != "" {
		if werr := prometheus.WriteToTextfile(e.metricsFile, e.Registry); werr != nil {
			err = fmt.Errorf("failed to write metrics: %w", werr)
		}
	}
	if cerr := e.closer.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// EngineOptions maps the settings onto engine options.
func (e *Env) EngineOptions() ([]protocolfill.Option, error) {
	rounding, err := e.Settings.RoundingPolicy()
	if err != nil {
		return nil, err
	}
	opts := []protocolfill.Option{
		protocolfill.WithLogger(e.Logger),
		protocolfill.WithMetrics(e.Registry),
		protocolfill.WithRounding(rounding),
		protocolfill.WithStyleResolver(e.Settings.StyleTable),
	}
	if e.Settings.SignatureCell != "" {
		opts = append(opts, protocolfill.WithSignatureCell(e.Settings.SignatureCell))
	}
	if e.Settings.CompressionLevel != nil {
		opts = append(opts, protocolfill.WithCompressionLevel(*e.Settings.CompressionLevel))
	}
	if e.Settings.MergeRedirect != nil {
		opts = append(opts, protocolfill.WithMergeRedirect(*e.Settings.MergeRedirect))
	}
	return opts, nil
}

// Engine builds an engine from the settings.
func (e *Env) Engine() (*protocolfill.Engine, error) {
	opts, err := e.EngineOptions()
	if err != nil {
		return nil, err
	}
	return protocolfill.New(opts...), nil
}
