// Package services defines shared utilities consumed by the catalog, scan,
// and site generation components.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and book names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (validation, missing data, external tools) consistently.
//
// Use these helpers when wiring new commands so error handling and
// observability stay uniform across the pipeline.
package services
