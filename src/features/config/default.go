package config

var defaultConfig = Config{
	LibraryPath: "./music",
	CoversPath:  "./covers",
	Logger: Logger{
		Enabled: true,
		Level:   "info",
		Format:  "text",
	},
	Server: Server{
		PrintRoutes: false,
		Port:        3636,
	},
	Database: Database{
		Path:              "./library.db",
		CaseSensitiveLike: false,
	},
	Cleaner: Cleaner{
		RetryIntervalSeconds: 300,
	},
}

// createDefaultConfig creates a new Config with sensible default values.
func createDefaultConfig() *Config {
	cfg := defaultConfig
	return &cfg
}
