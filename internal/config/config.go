// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Theme       ThemeConfig       `mapstructure:"theme"`
	Progress    ProgressConfig    `mapstructure:"progress"`
	Archive     ArchiveConfig     `mapstructure:"archive"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// NotifyConfig governs the debounced update notifier.
type NotifyConfig struct {
	IntervalMs int  `mapstructure:"interval_ms"`
	DebugLog   bool `mapstructure:"debug_log"`
}

// DiagnosticsConfig controls the diagnostics summary cache.
type DiagnosticsConfig struct {
	IntervalMs  int    `mapstructure:"interval_ms"`
	ErrorIcon   string `mapstructure:"error_icon"`
	WarningIcon string `mapstructure:"warning_icon"`
	InfoIcon    string `mapstructure:"info_icon"`
	HintIcon    string `mapstructure:"hint_icon"`
	Separator   string `mapstructure:"separator"`
}

// ThemeConfig sets the statusline icons.
type ThemeConfig struct {
	ShowName bool     `mapstructure:"show_name"`
	BusyIcon string   `mapstructure:"busy_icon"`
	IdleIcon string   `mapstructure:"idle_icon"`
	Ramp     []string `mapstructure:"ramp"`
}

// ProgressConfig tunes the observability fan-out hub.
type ProgressConfig struct {
	BufferSize         int `mapstructure:"buffer_size"`
	MaxBatchEvents     int `mapstructure:"max_batch_events"`
	MaxBatchWaitMs     int `mapstructure:"max_batch_wait_ms"`
	SinkTimeoutSeconds int `mapstructure:"sink_timeout_seconds"`
}

// ArchiveConfig enables the Postgres event archive when a DSN is set.
type ArchiveConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LSPSTATUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 7357)
	v.SetDefault("notify.interval_ms", 500)
	v.SetDefault("notify.debug_log", false)
	v.SetDefault("diagnostics.interval_ms", 500)
	v.SetDefault("diagnostics.error_icon", "E")
	v.SetDefault("diagnostics.warning_icon", "W")
	v.SetDefault("diagnostics.info_icon", "I")
	v.SetDefault("diagnostics.hint_icon", "H")
	v.SetDefault("diagnostics.separator", " ")
	v.SetDefault("theme.show_name", true)
	v.SetDefault("theme.busy_icon", "⣯")
	v.SetDefault("theme.idle_icon", "✓")
	v.SetDefault("theme.ramp", []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"})
	v.SetDefault("progress.buffer_size", 1024)
	v.SetDefault("progress.max_batch_events", 256)
	v.SetDefault("progress.max_batch_wait_ms", 250)
	v.SetDefault("progress.sink_timeout_seconds", 5)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits. Negative
// intervals are a host contract violation, so they are rejected at the
// configuration boundary rather than detected later.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Notify.IntervalMs <= 0 {
		return fmt.Errorf("notify.interval_ms must be > 0")
	}
	if c.Diagnostics.IntervalMs <= 0 {
		return fmt.Errorf("diagnostics.interval_ms must be > 0")
	}
	if len(c.Theme.Ramp) == 0 {
		return fmt.Errorf("theme.ramp must contain at least one icon")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// NotifyInterval converts the configured notifier interval.
func (c Config) NotifyInterval() time.Duration {
	return time.Duration(c.Notify.IntervalMs) * time.Millisecond
}

// DiagnosticsInterval converts the configured diagnostics cache interval.
func (c Config) DiagnosticsInterval() time.Duration {
	return time.Duration(c.Diagnostics.IntervalMs) * time.Millisecond
}
