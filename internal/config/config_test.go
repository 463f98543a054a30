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

	assert.Equal(t, 7357, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Notify.IntervalMs)
	assert.Equal(t, 500*time.Millisecond, cfg.NotifyInterval())
	assert.Equal(t, 500*time.Millisecond, cfg.DiagnosticsInterval())
	assert.Equal(t, "E", cfg.Diagnostics.ErrorIcon)
	assert.Equal(t, " ", cfg.Diagnostics.Separator)
	assert.True(t, cfg.Theme.ShowName)
	assert.Len(t, cfg.Theme.Ramp, 8)
	assert.Equal(t, 1024, cfg.Progress.BufferSize)
	assert.False(t, cfg.Auth.Enabled)
	assert.Empty(t, cfg.Archive.DSN)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
notify:
  interval_ms: 250
theme:
  show_name: false
  ramp: ["-", "="]
archive:
  dsn: postgres://localhost/lspstatus
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.NotifyInterval())
	assert.False(t, cfg.Theme.ShowName)
	assert.Equal(t, []string{"-", "="}, cfg.Theme.Ramp)
	assert.Equal(t, "postgres://localhost/lspstatus", cfg.Archive.DSN)
	// Untouched sections keep their defaults.
	assert.Equal(t, 500, cfg.Diagnostics.IntervalMs)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LSPSTATUS_SERVER_PORT", "8181")
	t.Setenv("LSPSTATUS_NOTIFY_DEBUG_LOG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.True(t, cfg.Notify.DebugLog)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Server:      ServerConfig{Port: 8080},
			Notify:      NotifyConfig{IntervalMs: 500},
			Diagnostics: DiagnosticsConfig{IntervalMs: 500},
			Theme:       ThemeConfig{Ramp: []string{"-"}},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Notify.IntervalMs = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Theme.Ramp = nil
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Auth = AuthConfig{Enabled: true}
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Auth = AuthConfig{Enabled: true, APIKey: "secret"}
	assert.NoError(t, cfg.Validate())
}
