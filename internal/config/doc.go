// Package config loads, normalizes, and validates scanshelf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a working-directory .env file, and
// honours environment fallbacks such as SCANSHELF_CATALOG. The Config type
// centralizes every knob the generator, reindexer and tagging commands need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical tool modes, and clear validation errors.
package config
