// Package logger provides the structured logging interface used across unsplashdl.
//
// It wraps zerolog with:
// - Leveled logging (Debug, Info, Warn, Error)
// - Structured fields via WithField, WithFields and WithError
// - Coloured console output on stderr, so stdout stays free for results
// - Optional JSON log file with size-based rotation (lumberjack)
// - A global logger for packages that are not handed one explicitly
// - TestLogger, which captures messages for assertions
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//
//	logger.Info("collection walk started")
//	logger.WithField("collection", id).Info("page fetched")
//	logger.WithError(err).Error("download failed")
package logger
