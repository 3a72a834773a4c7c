// Package main hosts the scanshelf CLI entrypoint and command graph.
//
// The Cobra command tree covers site generation, catalog reindexing, tag
// editing and configuration scaffolding. Configuration resolution, catalog
// opening and logger setup live in commandContext so subcommands only deal
// with flags and output.
package main
