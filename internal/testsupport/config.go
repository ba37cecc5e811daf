package testsupport

import (
	"path/filepath"
	"testing"

	"recap/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The gate password is "secret" and the server binds an ephemeral port.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Story.Manifest = filepath.Join(base, "recap.json")
	cfgVal.Gate.Password = "secret"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithManifest points the story at source.
func WithManifest(source string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Story.Manifest = source
	}
}

// WithPasswordHash replaces the plain gate password with a bcrypt hash.
func WithPasswordHash(hash string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gate.Password = ""
		b.cfg.Gate.PasswordHash = hash
	}
}

// WithLanguage sets the visitor message language.
func WithLanguage(lang string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Story.Language = lang
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
