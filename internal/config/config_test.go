package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"recap/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("RECAP_PASSWORD", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "recap")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Server.Bind != "127.0.0.1:8740" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if !filepath.IsAbs(cfg.Story.Manifest) || filepath.Base(cfg.Story.Manifest) != "recap.json" {
		t.Fatalf("expected absolute recap.json manifest, got %q", cfg.Story.Manifest)
	}
	if cfg.AssetTimeout() != 0 {
		t.Fatalf("expected no asset timeout by default, got %s", cfg.AssetTimeout())
	}
	if cfg.Preload.MaxParallel != config.Default().Preload.MaxParallel {
		t.Fatalf("unexpected max parallel: %d", cfg.Preload.MaxParallel)
	}
	if err := cfg.ValidateGate(); err == nil {
		t.Fatal("expected gate validation to require a password")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "recap.toml")

	type payload struct {
		Story struct {
			Manifest string `toml:"manifest"`
			Language string `toml:"language"`
		} `toml:"story"`
		Gate struct {
			Password string `toml:"password"`
		} `toml:"gate"`
		Preload struct {
			AssetTimeoutSeconds int `toml:"asset_timeout_seconds"`
			MaxParallel         int `toml:"max_parallel"`
		} `toml:"preload"`
	}
	custom := payload{}
	custom.Story.Manifest = "https://cdn.example.com/recap.json"
	custom.Story.Language = "FR"
	custom.Gate.Password = "  moncadeau "
	custom.Preload.AssetTimeoutSeconds = 30
	custom.Preload.MaxParallel = 0
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if !cfg.ManifestIsRemote() || cfg.Story.Manifest != "https://cdn.example.com/recap.json" {
		t.Fatalf("expected remote manifest, got %q", cfg.Story.Manifest)
	}
	if cfg.Story.Language != "fr" {
		t.Fatalf("expected language lowercased, got %q", cfg.Story.Language)
	}
	if cfg.Gate.Password != "moncadeau" {
		t.Fatalf("expected trimmed password, got %q", cfg.Gate.Password)
	}
	if cfg.AssetTimeout() != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.AssetTimeout())
	}
	if cfg.Preload.MaxParallel != 0 {
		t.Fatalf("expected unbounded preload, got %d", cfg.Preload.MaxParallel)
	}
	if err := cfg.ValidateGate(); err != nil {
		t.Fatalf("expected gate to validate: %v", err)
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RECAP_PASSWORD", "from-env")
	t.Setenv("RECAP_MANIFEST", "https://example.com/story.yaml")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gate.Password != "from-env" {
		t.Fatalf("expected env password, got %q", cfg.Gate.Password)
	}
	if cfg.Story.Manifest != "https://example.com/story.yaml" {
		t.Fatalf("expected env manifest, got %q", cfg.Story.Manifest)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"language", func(c *config.Config) { c.Story.Language = "de" }, "story.language"},
		{"both passwords", func(c *config.Config) { c.Gate.Password = "a"; c.Gate.PasswordHash = "$2a$10$abc" }, "mutually exclusive"},
		{"bad hash", func(c *config.Config) { c.Gate.PasswordHash = "plain" }, "bcrypt"},
		{"negative parallel", func(c *config.Config) { c.Preload.MaxParallel = -1 }, "max_parallel"},
		{"negative timeout", func(c *config.Config) { c.Preload.AssetTimeoutSeconds = -5 }, "asset_timeout_seconds"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bind", func(c *config.Config) { c.Server.Bind = "localhost" }, "server.bind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Story.Language != "fr" {
		t.Fatalf("expected sample language fr, got %q", cfg.Story.Language)
	}
}

func TestSetManifestExpandsLocalPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := config.Default()

	if err := cfg.SetManifest("~/story/recap.json"); err != nil {
		t.Fatalf("SetManifest: %v", err)
	}
	if want := filepath.Join(home, "story", "recap.json"); cfg.Story.Manifest != want {
		t.Fatalf("expected %q, got %q", want, cfg.Story.Manifest)
	}

	if err := cfg.SetManifest(" https://example.com/recap.json "); err != nil {
		t.Fatalf("SetManifest remote: %v", err)
	}
	if cfg.Story.Manifest != "https://example.com/recap.json" || !cfg.ManifestIsRemote() {
		t.Fatalf("unexpected remote manifest %q", cfg.Story.Manifest)
	}

	if err := cfg.SetManifest("   "); err == nil {
		t.Fatal("expected error for empty manifest")
	}
}

func TestImagePixelLimitDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[preload]\nmax_image_pixels = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Preload.MaxImagePixels != 64_000_000 {
		t.Fatalf("expected default pixel limit, got %d", cfg.Preload.MaxImagePixels)
	}
}
