package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	// Station layout
	assert.Equal(t, "/var/azuracast/stations", cfg.Stations.BaseDir)
	assert.Equal(t, "media", cfg.Stations.MediaDir)

	// Limits
	assert.Equal(t, int64(8*1024*1024), cfg.Limits.PostMax())
	assert.Equal(t, int64(2*1024*1024), cfg.Limits.UploadMax())

	// Playback and batch
	assert.Equal(t, "yaml", cfg.Playback.Format)
	assert.Equal(t, "**", cfg.Batch.FlattenInclude)

	assert.Equal(t, time.Hour, cfg.Security.CSRFTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                 "9000",
		"HOST":                 "127.0.0.1",
		"SHUTDOWN_TIMEOUT":     "3s",
		"STATIONS_BASE_DIR":    "/srv/stations",
		"STATIONS_MEDIA_DIR":   "library",
		"POST_MAX_SIZE":        "64M",
		"UPLOAD_MAX_FILESIZE":  "1g",
		"DB_PATH":              "/tmp/media.db",
		"PLAYBACK_FORMAT":      "toml",
		"PLAYBACK_WEBHOOK_URL": "http://liquidsoap:8080/reload",
		"FLATTEN_INCLUDE":      "**/*.mp3",
		"CSRF_SECRET":          "s3cret",
		"CSRF_TTL":             "30m",
		"LOG_LEVEL":            "debug",
		"LOG_DEV":              "true",
		"RATE_LIMIT_RPS":       "500",
		"RATE_LIMIT_ENABLED":   "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/srv/stations", cfg.Stations.BaseDir)
	assert.Equal(t, "library", cfg.Stations.MediaDir)
	assert.Equal(t, int64(64*1024*1024), cfg.Limits.UploadMax())
	assert.Equal(t, "/tmp/media.db", cfg.Store.Path)
	assert.Equal(t, "toml", cfg.Playback.Format)
	assert.Equal(t, "http://liquidsoap:8080/reload", cfg.Playback.WebhookURL)
	assert.Equal(t, "**/*.mp3", cfg.Batch.FlattenInclude)
	assert.Equal(t, "s3cret", cfg.Security.CSRFSecret)
	assert.Equal(t, 30*time.Minute, cfg.Security.CSRFTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"bad rate type":  {"RATE_LIMIT_RPS": "lots"},
		"unknown format": {"PLAYBACK_FORMAT": "xml"},
		"bad glob":       {"FLATTEN_INCLUDE": "[unclosed"},
		"zero rate":      {"RATE_LIMIT_RPS": "0"},
		"bad duration":   {"CSRF_TTL": "forever"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)

			// Falls back to defaults
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}

func TestUnlimitedUploads(t *testing.T) {
	limits := LimitsConfig{PostMaxSize: "0", UploadMaxFilesize: "-1"}
	assert.Zero(t, limits.UploadMax())

	limits = LimitsConfig{PostMaxSize: "0", UploadMaxFilesize: "10M"}
	assert.Equal(t, int64(10*1024*1024), limits.UploadMax())
}
