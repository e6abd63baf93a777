// Package main is the entry point for the station file manager server.
//
// The server exposes each station's media directory to the browser file
// manager: listing with search, sort and paging, batch delete and playlist
// assignment, uploads, downloads, and directory creation.
//
// Architecture:
//
//	Browser grid → Go server → station media root (filesystem)
//	                         → SQLite metadata store
//	                         → playback files + reload webhook
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -stations /var/azuracast/stations -db /var/lib/stationfiles/media.db
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
