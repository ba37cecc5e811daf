package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStory(); err != nil {
		return err
	}
	if err := c.validateGate(); err != nil {
		return err
	}
	if err := c.validatePreload(); err != nil {
		return err
	}
	return c.validateLogging()
}

// ValidateGate reports whether the password gate can admit anyone. Only the
// daemon needs a password; CLI commands that never serve pages skip it.
func (c *Config) ValidateGate() error {
	if c.Gate.Password == "" && c.Gate.PasswordHash == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/recap/config.toml"
		}
		return fmt.Errorf("gate.password or gate.password_hash is required. Set RECAP_PASSWORD or edit %s (create with 'recap config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateServer() error {
	if !strings.Contains(c.Server.Bind, ":") {
		return fmt.Errorf("server.bind must be host:port, got %q", c.Server.Bind)
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 {
		return errors.New("server timeouts must be zero or positive")
	}
	return nil
}

func (c *Config) validateStory() error {
	switch c.Story.Language {
	case "en", "fr":
	default:
		return fmt.Errorf("story.language: unsupported value %q (use en or fr)", c.Story.Language)
	}
	return nil
}

func (c *Config) validateGate() error {
	if c.Gate.Password != "" && c.Gate.PasswordHash != "" {
		return errors.New("gate.password and gate.password_hash are mutually exclusive")
	}
	if c.Gate.PasswordHash != "" && !strings.HasPrefix(c.Gate.PasswordHash, "$2") {
		return errors.New("gate.password_hash must be a bcrypt hash (see 'recap hash-password')")
	}
	if strings.ContainsAny(c.Gate.CookieName, " ;,=") {
		return fmt.Errorf("gate.cookie_name contains invalid characters: %q", c.Gate.CookieName)
	}
	return nil
}

func (c *Config) validatePreload() error {
	if c.Preload.MaxParallel < 0 {
		return errors.New("preload.max_parallel must be zero (unbounded) or positive")
	}
	if c.Preload.AssetTimeoutSeconds < 0 {
		return errors.New("preload.asset_timeout_seconds must be zero (no timeout) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
