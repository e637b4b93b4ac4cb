package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY_HASH", "hash")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "4500" {
		t.Errorf("Port = %q, want 4500", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if len(cfg.Displays) != 1 || cfg.Displays[0] != "Main" {
		t.Errorf("Displays = %v, want [Main]", cfg.Displays)
	}
	if cfg.RefreshInterval != time.Minute {
		t.Errorf("RefreshInterval = %v, want 1m", cfg.RefreshInterval)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if cfg.TargetRetention != 30*time.Minute {
		t.Errorf("TargetRetention = %v, want 30m", cfg.TargetRetention)
	}
	if cfg.Location != time.Local {
		t.Errorf("Location = %v, want Local", cfg.Location)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_KEY_HASH", "hash")
	t.Setenv("PORT", "8080")
	t.Setenv("DISPLAYS", " Main Hall, ,Courtyard ")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if strings.Join(cfg.Displays, "|") != "Main Hall|Courtyard" {
		t.Errorf("Displays = %v", cfg.Displays)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", cfg.RefreshInterval)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("Location = %v, want UTC", cfg.Location)
	}
}

func TestLoadSecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_key_hash")
	if err := os.WriteFile(path, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	t.Setenv("API_KEY_HASH", "from-env")
	t.Setenv("API_KEY_HASH_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKeyHash != "from-file" {
		t.Fatalf("APIKeyHash = %q, want from-file", cfg.APIKeyHash)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing api key hash",
			env:  map[string]string{"API_KEY_HASH": ""},
			want: "API_KEY_HASH is required",
		},
		{
			name: "invalid refresh interval",
			env:  map[string]string{"API_KEY_HASH": "hash", "REFRESH_INTERVAL": "often"},
			want: "invalid REFRESH_INTERVAL",
		},
		{
			name: "zero poll interval",
			env:  map[string]string{"API_KEY_HASH": "hash", "POLL_INTERVAL": "0s"},
			want: "POLL_INTERVAL must be positive",
		},
		{
			name: "zero target retention",
			env:  map[string]string{"API_KEY_HASH": "hash", "TARGET_RETENTION": "0s"},
			want: "TARGET_RETENTION must be positive",
		},
		{
			name: "negative target retention",
			env:  map[string]string{"API_KEY_HASH": "hash", "TARGET_RETENTION": "-5m"},
			want: "TARGET_RETENTION must be positive",
		},
		{
			name: "unknown timezone",
			env:  map[string]string{"API_KEY_HASH": "hash", "TIMEZONE": "Mars/Olympus"},
			want: "invalid TIMEZONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}
