package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.NotEmpty(t, c.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(map[string]any{
		"endpoint_addr":           ":9090",
		"secret_key":              "better-secret",
		"token_validity_duration": "30m",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{DatabaseDSN: "keep-me"}
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "better-secret", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, "keep-me", cfg.DatabaseDSN)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", ":7070", "-d", "postgres://elsewhere/db", "-t", "15"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "postgres://elsewhere/db", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, cfg.TokenValidityDuration)
}
