package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Server contains the presentation daemon's HTTP settings.
type Server struct {
	Bind                string `toml:"bind"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
}

// Story describes where the slide manifest lives and how the story is presented.
type Story struct {
	// Manifest is an http(s) URL or a local path to the slide list.
	Manifest string `toml:"manifest"`
	// Language selects the loading and notification messages ("en" or "fr").
	Language string `toml:"language"`
	Title    string `toml:"title"`
}

// Gate contains the password gate settings. The gate is a deterrent, not
// access control.
type Gate struct {
	Password        string `toml:"password"`
	PasswordHash    string `toml:"password_hash"`
	CookieName      string `toml:"cookie_name"`
	SessionTTLHours int    `toml:"session_ttl_hours"`
}

// Preload contains the media preloader knobs.
type Preload struct {
	// MaxParallel bounds concurrent asset loads. Zero starts every load at once.
	MaxParallel int `toml:"max_parallel"`
	// AssetTimeoutSeconds bounds a single asset load. Zero (the default) means
	// no timeout: a stalled asset stalls the whole barrier.
	AssetTimeoutSeconds int    `toml:"asset_timeout_seconds"`
	VideoReadaheadBytes int64  `toml:"video_readahead_bytes"`
	MaxImageBytes       int64  `toml:"max_image_bytes"`
	MaxImagePixels      int64  `toml:"max_image_pixels"`
	UserAgent           string `toml:"user_agent"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for recap.
//
// Configuration sections by subsystem:
//   - Paths: state (session database, lock) and log directories
//   - Server: daemon bind address and HTTP timeouts
//   - Story: manifest source, message language, page title
//   - Gate: password gate and session cookie
//   - Preload: media preloader concurrency, timeout, and read limits
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Server  Server  `toml:"server"`
	Story   Story   `toml:"story"`
	Gate    Gate    `toml:"gate"`
	Preload Preload `toml:"preload"`
	Logging Logging `toml:"logging"`
}

// SetManifest overrides story.manifest, expanding local paths the same way Load does.
func (c *Config) SetManifest(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("story.manifest must not be empty")
	}
	c.Story.Manifest = value
	if !c.ManifestIsRemote() && !strings.HasPrefix(value, "file://") {
		expanded, err := expandPath(value)
		if err != nil {
			return fmt.Errorf("story.manifest: %w", err)
		}
		c.Story.Manifest = expanded
	}
	return nil
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/recap/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("recap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SessionDBPath returns the location of the session flag database.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Paths.StateDir, "sessions.db")
}

// LogPath returns the daemon log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "recap.log")
}

// LockPath returns the daemon single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "recapd.lock")
}

// AssetTimeout returns the per-asset preload timeout; zero means none.
func (c *Config) AssetTimeout() time.Duration {
	if c.Preload.AssetTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Preload.AssetTimeoutSeconds) * time.Second
}

// SessionTTL returns how long granted session rows are kept before pruning.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Gate.SessionTTLHours) * time.Hour
}

// ManifestIsRemote reports whether the manifest is fetched over HTTP.
func (c *Config) ManifestIsRemote() bool {
	lower := strings.ToLower(c.Story.Manifest)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
