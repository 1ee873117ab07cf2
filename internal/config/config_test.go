package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  read_timeout: 5s
output:
  format: csv
  dir: exports
parser:
  split_fare: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "exports", cfg.Output.Dir)
	assert.True(t, cfg.Parser.SplitFare)

	// Untouched sections keep their defaults.
	assert.Equal(t, "Rides", cfg.Output.Sheet)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: csv\n"), 0o644))

	t.Setenv("RIDES_OUTPUT_FORMAT", "xlsx")
	t.Setenv("RIDES_LOGGING_LEVEL", "debug")
	t.Setenv("RIDES_PARSER_SPLIT_FARE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Parser.SplitFare)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{
			name:    "unknown output format",
			content: "output:\n  format: ods\n",
		},
		{
			name:    "invalid yaml",
			content: "server: [",
		},
		{
			name:    "sheet name too long",
			content: "output:\n  sheet: " + "abcdefghijklmnopqrstuvwxyz0123456789\n",
		},
		{
			name: "bad env value",
			env:  map[string]string{"RIDES_SERVER_BODY_LIMIT": "lots"},
		},
		{
			name: "bad log level",
			env:  map[string]string{"RIDES_LOGGING_LEVEL": "loud"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.content != "" {
				path = filepath.Join(t.TempDir(), "rides.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
