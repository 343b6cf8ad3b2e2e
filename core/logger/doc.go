// Package logger provides slog attribute helpers used across the module.
//
// Helpers follow the empty Attr pattern: a nil error or value yields an
// empty attribute that slog drops silently, so call sites never need nil
// checks:
//
//	log.Error("post failed", logger.Error(err), logger.Elapsed(start))
package logger
