// Package config provides 12-factor configuration management for the station
// file manager.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP listen address and shutdown timeout
//   - Stations: base directory, media subdirectory, and the listing marker name
//   - Limits: POST_MAX_SIZE and UPLOAD_MAX_FILESIZE in human-readable form
//   - Store: SQLite metadata database path
//   - Playback: playlist file directory, manifest format, reload webhook
//   - Batch: glob applied while flattening selections
//   - Security: CSRF secret and token lifetime
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Serving stations from %s on %s\n", cfg.Stations.BaseDir, cfg.Addr())
package config
