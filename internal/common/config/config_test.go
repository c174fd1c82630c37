package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "fixed", cfg.Placement)
	assert.Equal(t, "literal", cfg.SignStyle)
	assert.Equal(t, 10, cfg.ReadTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry.ini")
	ini := `
[server]
port = 4000
read-timeout = 30

[geometry]
placement = random
placement-extent = 2.5
seed = 42
sign-style = compact
`
	require.NoError(t, os.WriteFile(path, []byte(ini), 0o644))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port, "env overrides file")
	assert.Equal(t, 30, cfg.ReadTimeout)
	assert.Equal(t, "random", cfg.Placement)
	assert.Equal(t, 2.5, cfg.PlacementExtent)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "compact", cfg.SignStyle)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.ini"))
	_, err := Load()
	assert.Error(t, err)
}

func TestCheckInit(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"upper case placement", func(c *Config) { c.Placement = "RANDOM" }, true},
		{"unknown placement", func(c *Config) { c.Placement = "orbit" }, false},
		{"random without extent", func(c *Config) { c.Placement = "random"; c.PlacementExtent = 0 }, false},
		{"unknown sign style", func(c *Config) { c.SignStyle = "fancy" }, false},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }, false},
		{"empty port", func(c *Config) { c.Port = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.CheckInit()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
