package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Port            string        `mapstructure:"port"`
	APIKeyHash      string        `mapstructure:"api_key_hash"`
	LogLevel        string        `mapstructure:"log_level"`
	Displays        []string      `mapstructure:"displays"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	TargetRetention time.Duration `mapstructure:"target_retention"`
	StaticDir       string        `mapstructure:"static_dir"`
	Timezone        string        `mapstructure:"timezone"`
	Location        *time.Location
}

// Load reads configuration from environment variables
// Supports _FILE suffix pattern for reading secrets from files (Docker Swarm style)
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("port", "4500")
	v.SetDefault("log_level", "info")
	v.SetDefault("displays", "Main")
	v.SetDefault("refresh_interval", "60s")
	v.SetDefault("poll_interval", "30s")
	v.SetDefault("target_retention", "30m")
	v.SetDefault("static_dir", "static")

	// Bind environment variables
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	// Map of config keys to their env var names
	envBindings := map[string]string{
		"port":             "PORT",
		"api_key_hash":     "API_KEY_HASH",
		"log_level":        "LOG_LEVEL",
		"displays":         "DISPLAYS",
		"refresh_interval": "REFRESH_INTERVAL",
		"poll_interval":    "POLL_INTERVAL",
		"target_retention": "TARGET_RETENTION",
		"static_dir":       "STATIC_DIR",
		"timezone":         "TIMEZONE",
	}

	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", envVar, err)
		}
	}

	cfg := &Config{}

	// Load each config value, checking for _FILE variants first
	cfg.Port = getConfigValue(v, "port", "PORT")
	cfg.APIKeyHash = getConfigValue(v, "api_key_hash", "API_KEY_HASH")
	cfg.LogLevel = getConfigValue(v, "log_level", "LOG_LEVEL")
	cfg.Displays = splitList(getConfigValue(v, "displays", "DISPLAYS"))
	cfg.StaticDir = getConfigValue(v, "static_dir", "STATIC_DIR")
	cfg.Timezone = getConfigValue(v, "timezone", "TIMEZONE")

	var err error
	if cfg.RefreshInterval, err = getDuration(v, "refresh_interval", "REFRESH_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = getDuration(v, "poll_interval", "POLL_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.TargetRetention, err = getDuration(v, "target_retention", "TARGET_RETENTION"); err != nil {
		return nil, err
	}

	cfg.Location = time.Local
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	// Validate required config
	if cfg.APIKeyHash == "" {
		return nil, fmt.Errorf("API_KEY_HASH is required")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if cfg.TargetRetention <= 0 {
		return nil, fmt.Errorf("TARGET_RETENTION must be positive")
	}

	return cfg, nil
}

// getConfigValue checks for FOO_FILE env var first, reads from file if exists,
// otherwise falls back to FOO env var
func getConfigValue(v *viper.Viper, key, envVar string) string {
	// Check for _FILE variant first
	fileEnvVar := envVar + "_FILE"
	if filePath := os.Getenv(fileEnvVar); filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	// Fall back to regular env var via viper
	return v.GetString(key)
}

func getDuration(v *viper.Viper, key, envVar string) (time.Duration, error) {
	raw := getConfigValue(v, key, envVar)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envVar, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
