package config

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/stationfiles/internal/domain/files"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/playback"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Stations  StationsConfig
	Limits    LimitsConfig
	Store     StoreConfig
	Playback  PlaybackConfig
	Batch     BatchConfig
	Security  SecurityConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// StationsConfig locates station media roots.
type StationsConfig struct {
	BaseDir  string `envconfig:"STATIONS_BASE_DIR" default:"/var/azuracast/stations"`
	MediaDir string `envconfig:"STATIONS_MEDIA_DIR" default:"media"`
	Marker   string `envconfig:"FILES_MARKER" default:".stationfiles"`
}

// LimitsConfig holds request size limits in human-readable form.
type LimitsConfig struct {
	PostMaxSize       string `envconfig:"POST_MAX_SIZE" default:"8M"`
	UploadMaxFilesize string `envconfig:"UPLOAD_MAX_FILESIZE" default:"2M"`
}

// PostMax returns the request body limit in bytes.
func (l LimitsConfig) PostMax() int64 { return files.ParseSize(l.PostMaxSize) }

// UploadMax returns the effective upload ceiling in bytes; 0 is unlimited.
func (l LimitsConfig) UploadMax() int64 {
	return files.MaxUploadSize(l.PostMax(), files.ParseSize(l.UploadMaxFilesize))
}

// StoreConfig holds metadata store configuration.
type StoreConfig struct {
	Path string `envconfig:"DB_PATH" default:"/var/lib/stationfiles/media.db"`
}

// PlaybackConfig holds configuration-rewrite settings.
type PlaybackConfig struct {
	Dir            string `envconfig:"PLAYBACK_DIR" default:"/var/lib/stationfiles/playback"`
	Format         string `envconfig:"PLAYBACK_FORMAT" default:"yaml"`
	WebhookURL     string `envconfig:"PLAYBACK_WEBHOOK_URL"`
	WebhookRetries int    `envconfig:"PLAYBACK_WEBHOOK_RETRIES" default:"3"`
}

// BatchConfig holds batch engine settings.
type BatchConfig struct {
	FlattenInclude string `envconfig:"FLATTEN_INCLUDE" default:"**"`
}

// SecurityConfig holds CSRF settings.
type SecurityConfig struct {
	CSRFSecret string        `envconfig:"CSRF_SECRET"`
	CSRFTTL    time.Duration `envconfig:"CSRF_TTL" default:"1h"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.Stations.BaseDir == "" {
		return fmt.Errorf("invalid config: STATIONS_BASE_DIR is required")
	}
	if !playback.ValidFormat(c.Playback.Format) {
		return fmt.Errorf("invalid config: unknown PLAYBACK_FORMAT %q", c.Playback.Format)
	}
	if !doublestar.ValidatePattern(c.Batch.FlattenInclude) {
		return fmt.Errorf("invalid config: bad FLATTEN_INCLUDE pattern %q", c.Batch.FlattenInclude)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid config: RATE_LIMIT_RPS must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Stations: StationsConfig{
			BaseDir:  "/var/azuracast/stations",
			MediaDir: "media",
			Marker:   ".stationfiles",
		},
		Limits: LimitsConfig{
			PostMaxSize:       "8M",
			UploadMaxFilesize: "2M",
		},
		Store: StoreConfig{
			Path: "/var/lib/stationfiles/media.db",
		},
		Playback: PlaybackConfig{
			Dir:            "/var/lib/stationfiles/playback",
			Format:         playback.FormatYAML,
			WebhookRetries: 3,
		},
		Batch: BatchConfig{
			FlattenInclude: files.DefaultInclude,
		},
		Security: SecurityConfig{
			CSRFTTL: time.Hour,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
