package config

const (
	defaultStateDir            = "~/.local/share/recap"
	defaultLogDir              = "~/.local/share/recap/logs"
	defaultBind                = "127.0.0.1:8740"
	defaultReadTimeoutSeconds  = 15
	defaultWriteTimeoutSeconds = 0
	defaultManifest            = "recap.json"
	defaultLanguage            = "en"
	defaultTitle               = "Recap"
	defaultCookieName          = "recap_session"
	defaultSessionTTLHours     = 24
	defaultMaxParallel         = 6
	defaultVideoReadahead      = 512 * 1024
	defaultMaxImageBytes       = 64 * 1024 * 1024
	defaultMaxImagePixels      = 64 * 1000 * 1000
	defaultUserAgent           = "recap/dev"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Server: Server{
			Bind:                defaultBind,
			ReadTimeoutSeconds:  defaultReadTimeoutSeconds,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
		},
		Story: Story{
			Manifest: defaultManifest,
			Language: defaultLanguage,
			Title:    defaultTitle,
		},
		Gate: Gate{
			CookieName:      defaultCookieName,
			SessionTTLHours: defaultSessionTTLHours,
		},
		Preload: Preload{
			MaxParallel:         defaultMaxParallel,
			VideoReadaheadBytes: defaultVideoReadahead,
			MaxImageBytes:       defaultMaxImageBytes,
			MaxImagePixels:      defaultMaxImagePixels,
			UserAgent:           defaultUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
