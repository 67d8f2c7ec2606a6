package config

// Config holds the application configuration.
type Config struct {
	LibraryPath string   `yaml:"libraryPath" validate:"required"`
	CoversPath  string   `yaml:"coversPath" validate:"required"`
	Logger      Logger   `yaml:"logger"`
	Server      Server   `yaml:"server"`
	Database    Database `yaml:"database"`
	Cleaner     Cleaner  `yaml:"cleaner"`
}

// Database holds the configuration for the database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
	// CaseSensitiveLike makes substring filters case-sensitive.
	CaseSensitiveLike bool `yaml:"case_sensitive_like"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// Cleaner holds the configuration for the cover-file cleanup sweeper.
type Cleaner struct {
	// RetryIntervalSeconds is how often failed deletions are retried.
	// Zero disables the background sweep.
	RetryIntervalSeconds int `yaml:"retry_interval_seconds"`
}
