// Package config decodes question configurations and engine settings, and
// lints configuration sets.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/formula"
	"github.com/aretw0/protocolfill/pkg/sheetxml"
	"gopkg.in/yaml.v3"
)

// Settings is the engine settings file.
type Settings struct {
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
	LogFile   string `yaml:"log_file" json:"log_file"`

	Language      string             `yaml:"language" json:"language"`
	SignatureCell string             `yaml:"signature_cell" json:"signature_cell"`
	DefaultStyle  string             `yaml:"default_style" json:"default_style"`
	StyleBands    []domain.StyleBand `yaml:"style_bands" json:"style_bands"`

	Rounding         string `yaml:"rounding" json:"rounding"`
	CompressionLevel *int   `yaml:"compression_level" json:"compression_level"`
	MergeRedirect    *bool  `yaml:"merge_redirect" json:"merge_redirect"`

	Redis RedisSettings `yaml:"redis" json:"redis"`
}

// RedisSettings configures the template cache and error sink.
type RedisSettings struct {
	Addr   string        `yaml:"addr" json:"addr"`
	Prefix string        `yaml:"prefix" json:"prefix"`
	TTL    time.Duration `yaml:"ttl" json:"ttl"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:  "info",
		LogFormat: "text",
		Language:  "en",
		Rounding:  "nearest",
		Redis:     RedisSettings{Prefix: "protocolfill:", TTL: 10 * time.Minute},
	}
}

// LoadSettings reads a YAML settings file over the defaults.
// A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, s.Validate()
}

// Validate checks the settings for values the engine cannot use.
func (s Settings) Validate() error {
	var errs []error
	add := func(field, reason string, value any) {
		errs = append(errs, &ValidationError{Field: field, Reason: reason, Value: value})
	}
	switch strings.ToLower(s.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		add("log_level", "unknown level", s.LogLevel)
	}
	switch strings.ToLower(s.LogFormat) {
	case "", "text", "json":
	default:
		add("log_format", "must be text or json", s.LogFormat)
	}
	if _, err := formula.ParseRounding(s.Rounding); err != nil {
		add("rounding", err.Error(), nil)
	}
	if s.CompressionLevel != nil && (*s.CompressionLevel < -2 || *s.CompressionLevel > 9) {
		add("compression_level", "must be between -2 and 9", *s.CompressionLevel)
	}
	if s.SignatureCell != "" {
		if _, err := sheetxml.ParseRef(s.SignatureCell); err != nil {
			add("signature_cell", err.Error(), nil)
		}
	}
	for i, b := range s.StyleBands {
		if b.FromRow < 1 || b.ToRow < b.FromRow {
			add(fmt.Sprintf("style_bands[%d]", i), "needs 1 <= from_row <= to_row", fmt.Sprintf("%d-%d", b.FromRow, b.ToRow))
		}
		if b.Style == "" {
			add(fmt.Sprintf("style_bands[%d]", i), "style must not be empty", nil)
		}
	}
	if s.Redis.TTL < 0 {
		add("redis.ttl", "must not be negative", s.Redis.TTL)
	}
	return aggregate(errs)
}

// RoundingPolicy returns the configured rounding policy.
func (s Settings) RoundingPolicy() (formula.Rounding, error) {
	return formula.ParseRounding(s.Rounding)
}

// StyleTable merges the settings-level style policy under a template's own.
// Template bands come first; the template default wins over the settings default.
func (s Settings) StyleTable(meta domain.TemplateMetadata) sheetxml.StyleTable {
	t := sheetxml.StyleTable{
		Bands:   append(append([]domain.StyleBand(nil), meta.StyleBands...), s.StyleBands...),
		Default: s.DefaultStyle,
	}
	if meta.DefaultStyle != "" {
		t.Default = meta.DefaultStyle
	}
	return t
}
