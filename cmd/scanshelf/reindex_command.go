package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanshelf/internal/catalog"
	"scanshelf/internal/reindex"
	"scanshelf/internal/scan"
)

func newReindexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex [img_path]",
		Short: "Synchronize the catalog with the scan tree",
		Long: `Rescan img_path (default: paths.source_dir) and update the catalog.

Pictures are identified by content hash, so renamed or moved files keep their
tags. Book, category and scan date values are rebuilt from the tree and page
numbers are reassigned. Pictures whose file vanished are kept but marked
invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			return ctx.withCatalog(cmd.Context(), false, func(store *catalog.Store) error {
				report, err := reindex.Run(cmd.Context(), store, reindex.Options{
					Source:    sourceDir(cfg, args),
					Extension: cfg.Scan.Extension,
					ReadEXIF:  cfg.Scan.ReadEXIF,
					Logger:    logger,
					Progress:  scan.TerminalProgress(),
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, pic := range report.Disappeared {
					fmt.Fprintf(out, "Image file for entry %s (%s) disappeared.\n", pic.Filename, pic.Hash)
				}
				for _, c := range report.Collisions {
					fmt.Fprintf(cmd.ErrOrStderr(), "Page %d of %s is claimed by %d files.\n", c.Page, c.Book, len(c.Files))
				}
				fmt.Fprintf(out, "Indexed %d pictures (%d duplicates, %d disappeared)\n",
					report.Scanned, len(report.Duplicates), len(report.Disappeared))
				return nil
			})
		},
	}
}
