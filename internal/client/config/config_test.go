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

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerAddr)
	assert.NotEmpty(t, c.DataDir)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
}

func TestDerivedPaths(t *testing.T) {
	c := Config{DataDir: filepath.Join("some", "dir")}

	assert.Equal(t, filepath.Join("some", "dir", "vault"), c.VaultDir())
	assert.Equal(t, filepath.Join("some", "dir", "teataster.db"), c.DatabasePath())
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads values from the file named by -config", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"server_addr":           "http://tea.example:9000",
			"online_check_interval": "10s",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{DataDir: "keep-me"}
		parseJson(cfg)

		assert.Equal(t, "http://tea.example:9000", cfg.ServerAddr)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
		// fields absent from the file keep their values
		assert.Equal(t, "keep-me", cfg.DataDir)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ServerAddr: "http://defaults:1234", OnlineCheckInterval: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.ServerAddr)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", "http://flag.example:7000", "-d", "/tmp/tt", "-i", "7"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://flag.example:7000", cfg.ServerAddr)
	assert.Equal(t, "/tmp/tt", cfg.DataDir)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
}
