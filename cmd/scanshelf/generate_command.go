package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanshelf/internal/catalog"
	"scanshelf/internal/deps"
	"scanshelf/internal/generate"
	"scanshelf/internal/scan"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var outFlag string
	var titleFlag string

	cmd := &cobra.Command{
		Use:   "generate [img_path]",
		Short: "Build the static site archive from the catalog",
		Long: `Build a browsable static site from the catalog and the scanned images
under img_path (default: paths.source_dir) and pack it into one zip archive.

One of --out or --title is required. Without --out the archive is named after
the title.`,
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
			if err := deps.Require(deps.CheckBinaries(deps.Requirements(cfg))); err != nil {
				return err
			}

			return ctx.withCatalog(cmd.Context(), true, func(store *catalog.Store) error {
				result, err := generate.Run(cmd.Context(), store, generate.Options{
					Source:   sourceDir(cfg, args),
					Title:    titleFlag,
					Output:   outFlag,
					Config:   cfg,
					Logger:   logger,
					Progress: scan.TerminalProgress(),
				})
				if err != nil {
					return err
				}

				errOut := cmd.ErrOrStderr()
				for _, pic := range result.Missing {
					fmt.Fprintf(errOut, "Image file for entry %s (%s) is missing; page skipped.\n", pic.Filename, pic.Hash)
				}
				for _, dup := range result.Duplicates {
					fmt.Fprintf(errOut, "Duplicate image %s ignored; same content as %s.\n", dup.Dropped.RelPath, dup.Kept.RelPath)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d books, %d pages)\n", result.Archive, result.Books, result.Pages)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Archive path (default: <title>.zip)")
	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Product title used for headings and the site directory")
	return cmd
}
