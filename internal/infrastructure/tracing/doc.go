// Package tracing provides lightweight request tracing.
//
// Each HTTP request gets a span whose trace id is taken from X-Trace-ID or
// generated as a ULID. Ids are echoed on the response and propagated onto
// outgoing calls such as the playback reload webhook. Finished spans are logged
// through zap by a background collector.
package tracing
