package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"server":{},"api":{}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Listen != defaultListen {
		t.Fatalf("expected default listen %s, got %s", defaultListen, cfg.Server.Listen)
	}
	if cfg.API.BaseURL != defaultAPIBaseURL || cfg.API.Timeout != defaultAPITimeout {
		t.Fatalf("unexpected api defaults: %+v", cfg.API)
	}
	if cfg.UI.Locale != "ru" || cfg.UI.SafeguardDelay != time.Second || cfg.UI.CloseDelay != time.Second {
		t.Fatalf("unexpected ui defaults: %+v", cfg.UI)
	}
	if cfg.UI.Theme.HeaderColor != "#151729" || cfg.UI.Theme.BackgroundColor != "#151729" {
		t.Fatalf("unexpected theme defaults: %+v", cfg.UI.Theme)
	}
}

func TestLoadHonoursOverridesPerFormat(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{
			name: "json",
			file: "config.json",
			data: `{"server":{"listen":"0.0.0.0:9000"},"api":{"base_url":"https://bot.example/api/","timeout":"3s"},"ui":{"locale":"en","safeguard_delay":"2s"}}`,
		},
		{
			name: "toml",
			file: "config.toml",
			data: "[server]\nlisten = \"0.0.0.0:9000\"\n[api]\nbase_url = \"https://bot.example/api/\"\ntimeout = \"3s\"\n[ui]\nlocale = \"en\"\nsafeguard_delay = \"2s\"\n",
		},
		{
			name: "yaml",
			file: "config.yaml",
			data: "server:\n  listen: 0.0.0.0:9000\napi:\n  base_url: https://bot.example/api/\n  timeout: 3s\nui:\n  locale: en\n  safeguard_delay: 2s\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.data))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Server.Listen != "0.0.0.0:9000" {
				t.Fatalf("listen override not applied: %+v", cfg.Server)
			}
			if cfg.API.BaseURL != "https://bot.example/api" || cfg.API.Timeout != 3*time.Second {
				t.Fatalf("api override not applied: %+v", cfg.API)
			}
			if cfg.UI.Locale != "en" || cfg.UI.SafeguardDelay != 2*time.Second {
				t.Fatalf("ui override not applied: %+v", cfg.UI)
			}
		})
	}
}

func TestLoadPrefersEnvironment(t *testing.T) {
	path := writeConfig(t, "config.json", `{"api":{"base_url":"https://file.example/api"},"ui":{"locale":"en"}}`)
	t.Setenv("ADMIN_PICKER_API_BASE_URL", "https://env.example/api")
	t.Setenv("ADMIN_PICKER_SAFEGUARD_DELAY", "5s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example/api" {
		t.Fatalf("expected env base url, got %q", cfg.API.BaseURL)
	}
	if cfg.UI.SafeguardDelay != 5*time.Second {
		t.Fatalf("expected env safeguard delay, got %s", cfg.UI.SafeguardDelay)
	}
	if cfg.UI.Locale != "en" {
		t.Fatalf("expected file locale to survive, got %q", cfg.UI.Locale)
	}
}

func TestLoadMissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(DefaultPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != defaultAPIBaseURL {
		t.Fatalf("expected defaults, got %+v", cfg.API)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
	if _, err := Load(writeConfig(t, "config.ini", "x=1")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, err := Load(writeConfig(t, "config.json", `{"ui":{"close_delay":"soon"}}`)); err == nil {
		t.Fatalf("expected error for bad duration")
	}
	_, err := Load(writeConfig(t, "config.json", `{"api":{"base_url":"/api"}}`))
	if !errors.Is(err, ErrMissingAPIBase) {
		t.Fatalf("expected ErrMissingAPIBase, got %v", err)
	}
}
