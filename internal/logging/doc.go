// Package logging assembles structured slog loggers and formatting helpers used
// across scanshelf commands.
//
// It owns the console and JSON handlers, duplicates records into an optional
// JSON log file, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs and book names. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
package logging
