// Package logging provides structured logging using uber/zap.
//
// Production loggers emit JSON; development loggers emit colored console output.
// Child loggers carry the station id or a component name as structured fields.
//
//	logger := logging.NewDefault()
//	logger.Station("radio1").Info("Batch complete", zap.Int("processed", 3))
package logging
