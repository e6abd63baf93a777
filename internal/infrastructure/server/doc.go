// Package server assembles the station file manager: metrics registry, tracer,
// SQLite metadata store, station resolver, playback writer, CSRF tokens, and
// the gin router, served behind gzip compression.
package server
