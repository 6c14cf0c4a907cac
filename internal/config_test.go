package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	pkgconfig "stashview/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Keys.Contents != "backpackContents" || cfg.Keys.SearchDepth != 3 {
		t.Errorf("keys = %+v", cfg.Keys)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth enabled by default")
	}
}

func TestAuthValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = AuthModeToken
	if err := cfg.Validate(); err == nil {
		t.Error("token mode without token passed validation")
	}
	cfg.Auth.Token = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("token mode with token failed: %v", err)
	}
	if !cfg.Auth.AuthEnabled() {
		t.Error("AuthEnabled false in token mode")
	}
}

func TestRenderValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Render.Timezone = "Not/AZone"
	if err := cfg.Validate(); err == nil {
		t.Error("bad timezone passed validation")
	}

	cfg = NewDefaultConfig()
	cfg.Render.SlotSize = 4
	if err := cfg.Validate(); err == nil {
		t.Error("tiny slot size passed validation")
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("STASH_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  log_level: DEBUG
  http:
    port: 9090
sources:
  backpack_file: ./world.dat
auth:
  mode: token
  token: ${STASH_TOKEN}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Auth.Token != "from-env" {
		t.Errorf("token = %q", cfg.Auth.Token)
	}
	if cfg.Sources.Empty() {
		t.Error("sources empty after load")
	}
	// Untouched sections keep their defaults.
	if cfg.Render.Columns != 9 {
		t.Errorf("columns = %d", cfg.Render.Columns)
	}
}

func TestLoadOptionalMissingFileKeepsDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), cfg); err != nil {
		t.Fatalf("load optional: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
}
