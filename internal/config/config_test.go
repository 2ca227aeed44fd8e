package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("input", "/var/log/auth.log", "")
	fs.String("output", "gantt_chart.png", "")
	fs.Int("width", 500, "")
	fs.Int("height", 270, "")
	fs.Bool("force", false, "")
	fs.Int("year", 0, "")
	fs.String("log-level", "info", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/var/log/auth.log", cfg.Input.Path)
	assert.False(t, cfg.Input.Journal)
	assert.Equal(t, 0, cfg.Parse.Year)
	assert.Equal(t, "Local", cfg.Parse.Timezone)
	assert.Equal(t, "gantt_chart.png", cfg.Output.Path)
	assert.Equal(t, 500, cfg.Output.Width)
	assert.Equal(t, 270, cfg.Output.Height)
	assert.False(t, cfg.Output.Force)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoadFlagsOverride(t *testing.T) {
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--input", "logdaten.txt", "--width", "800", "--force", "--year", "2007"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "logdaten.txt", cfg.Input.Path)
	assert.Equal(t, 800, cfg.Output.Width)
	assert.Equal(t, 270, cfg.Output.Height)
	assert.True(t, cfg.Output.Force)
	assert.Equal(t, 2007, cfg.Parse.Year)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AUTHLOG_PARSE_YEAR", "2019")
	t.Setenv("AUTHLOG_LOGGING_LEVEL", "debug")

	cfg, err := Load("", testFlags())
	require.NoError(t, err)

	assert.Equal(t, 2019, cfg.Parse.Year)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  path: /srv/logs/auth.log
parse:
  year: 2021
  timezone: UTC
output:
  path: out.jpg
  height: 600
  clamp_open: true
logging:
  format: json
metrics:
  textfile: /var/lib/node_exporter/authlog.prom
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/srv/logs/auth.log", cfg.Input.Path)
	assert.Equal(t, 2021, cfg.Parse.Year)
	assert.Equal(t, "out.jpg", cfg.Output.Path)
	assert.Equal(t, 600, cfg.Output.Height)
	assert.True(t, cfg.Output.ClampOpen)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/var/lib/node_exporter/authlog.prom", cfg.Metrics.Textfile)

	loc, err := cfg.Parse.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "zero width", args: []string{"--width", "0"}},
		{name: "negative height", args: []string{"--height", "-5"}},
		{name: "negative year", args: []string{"--year", "-1"}},
		{name: "bad log level", args: []string{"--log-level", "loud"}},
		{name: "bad timezone", env: map[string]string{"AUTHLOG_PARSE_TIMEZONE": "Mars/Olympus"}},
		{name: "empty input", args: []string{"--input", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			fs := testFlags()
			require.NoError(t, fs.Parse(tt.args))

			_, err := Load("", fs)
			assert.Error(t, err)
		})
	}
}

func TestLocation(t *testing.T) {
	loc, err := ParseConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = ParseConfig{Timezone: "Europe/Berlin"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}
