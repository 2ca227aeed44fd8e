package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without zoneinfo

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// AUTHLOG_PARSE_YEAR=2023 or AUTHLOG_LOGGING_LEVEL=debug.
const EnvPrefix = "AUTHLOG"

// Config holds the complete run configuration
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Parse   ParseConfig   `mapstructure:"parse"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// InputConfig selects where log lines come from
type InputConfig struct {
	Path        string   `mapstructure:"path"`
	Journal     bool     `mapstructure:"journal"`      // read journalctl instead of Path
	JournalArgs []string `mapstructure:"journal_args"` // extra journalctl arguments
}

// ParseConfig controls timestamp normalization
type ParseConfig struct {
	Year     int    `mapstructure:"year"`     // 0 = current year
	Timezone string `mapstructure:"timezone"` // IANA name or "Local"
}

// OutputConfig defines the chart image
type OutputConfig struct {
	Path      string `mapstructure:"path"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Force     bool   `mapstructure:"force"`
	Title     string `mapstructure:"title"`
	ClampOpen bool   `mapstructure:"clamp_open"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig defines where diagnostic counters are written
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// flagKeys maps config keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"input.path":        "input",
	"input.journal":     "journal",
	"parse.year":        "year",
	"parse.timezone":    "timezone",
	"output.path":       "output",
	"output.width":      "width",
	"output.height":     "height",
	"output.force":      "force",
	"output.title":      "title",
	"output.clamp_open": "clamp-open",
	"logging.level":     "log-level",
	"logging.format":    "log-format",
	"metrics.textfile":  "metrics-file",
}

// Load reads configuration from defaults, an optional config file, AUTHLOG_*
// environment variables and flags, in increasing order of precedence.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Input defaults
	v.SetDefault("input.path", "/var/log/auth.log")
	v.SetDefault("input.journal", false)
	v.SetDefault("input.journal_args", []string{})

	// Parse defaults
	v.SetDefault("parse.year", 0)
	v.SetDefault("parse.timezone", "Local")

	// Output defaults
	v.SetDefault("output.path", "gantt_chart.png")
	v.SetDefault("output.width", 500)
	v.SetDefault("output.height", 270)
	v.SetDefault("output.force", false)
	v.SetDefault("output.title", "Sessions")
	v.SetDefault("output.clamp_open", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Metrics defaults
	v.SetDefault("metrics.textfile", "")
}

// validate validates the configuration
func validate(cfg *Config) error {
	if !cfg.Input.Journal && cfg.Input.Path == "" {
		return fmt.Errorf("input path is required unless reading the journal")
	}

	if cfg.Parse.Year < 0 || cfg.Parse.Year > 9999 {
		return fmt.Errorf("invalid reference year: %d", cfg.Parse.Year)
	}
	if _, err := cfg.Parse.Location(); err != nil {
		return err
	}

	if cfg.Output.Width <= 0 {
		return fmt.Errorf("width must be > 0, got %d", cfg.Output.Width)
	}
	if cfg.Output.Height <= 0 {
		return fmt.Errorf("height must be > 0, got %d", cfg.Output.Height)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", cfg.Logging.Format)
	}

	return nil
}

// Location resolves Timezone; empty and "Local" mean the host zone.
func (p ParseConfig) Location() (*time.Location, error) {
	if p.Timezone == "" || p.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}
