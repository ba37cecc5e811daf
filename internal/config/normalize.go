package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStory(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeGate()
	c.normalizePreload()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
}

func (c *Config) normalizeStory() error {
	if value, ok := os.LookupEnv("RECAP_MANIFEST"); ok && strings.TrimSpace(value) != "" {
		c.Story.Manifest = value
	}
	c.Story.Manifest = strings.TrimSpace(c.Story.Manifest)
	if c.Story.Manifest == "" {
		c.Story.Manifest = defaultManifest
	}
	if !c.ManifestIsRemote() && !strings.HasPrefix(c.Story.Manifest, "file://") {
		expanded, err := expandPath(c.Story.Manifest)
		if err != nil {
			return fmt.Errorf("story.manifest: %w", err)
		}
		c.Story.Manifest = expanded
	}
	c.Story.Language = strings.ToLower(strings.TrimSpace(c.Story.Language))
	if c.Story.Language == "" {
		c.Story.Language = defaultLanguage
	}
	c.Story.Title = strings.TrimSpace(c.Story.Title)
	if c.Story.Title == "" {
		c.Story.Title = defaultTitle
	}
	return nil
}

func (c *Config) normalizeGate() {
	if c.Gate.Password == "" && c.Gate.PasswordHash == "" {
		if value, ok := os.LookupEnv("RECAP_PASSWORD"); ok {
			c.Gate.Password = value
		}
	}
	c.Gate.Password = strings.TrimSpace(c.Gate.Password)
	c.Gate.PasswordHash = strings.TrimSpace(c.Gate.PasswordHash)
	c.Gate.CookieName = strings.TrimSpace(c.Gate.CookieName)
	if c.Gate.CookieName == "" {
		c.Gate.CookieName = defaultCookieName
	}
	if c.Gate.SessionTTLHours <= 0 {
		c.Gate.SessionTTLHours = defaultSessionTTLHours
	}
}

func (c *Config) normalizePreload() {
	if c.Preload.VideoReadaheadBytes <= 0 {
		c.Preload.VideoReadaheadBytes = defaultVideoReadahead
	}
	if c.Preload.MaxImageBytes <= 0 {
		c.Preload.MaxImageBytes = defaultMaxImageBytes
	}
	if c.Preload.MaxImagePixels <= 0 {
		c.Preload.MaxImagePixels = defaultMaxImagePixels
	}
	c.Preload.UserAgent = strings.TrimSpace(c.Preload.UserAgent)
	if c.Preload.UserAgent == "" {
		c.Preload.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
