// Package logger builds the zap logger shared by the CLI, the HTTP features and the
// sync engines.
//
// New reads the log section of the configuration:
//   - level: debug, info, warn or error
//   - format: json for production output, console for a colourised development encoder
//   - file: when set, entries are also written as JSON to a lumberjack-rotated file
//     (max_size_mb, max_backups, max_age_days)
//
// WithRayID returns a child logger tagged with the request's ray id so the log
// lines of one push or pull request can be followed through a busy cycle:
//
//	l := logger.WithRayID(h.service.logger, c)
//	l.Warn("Category finished with errors", zap.Int("failed", res.Failed))
package logger
