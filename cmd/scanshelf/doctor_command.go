package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"scanshelf/internal/deps"
	"scanshelf/internal/staging"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var cleanOlder time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and leftover staging runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				switch {
				case !status.Available && status.Optional:
					state = "unused"
				case !status.Available:
					state = "missing"
				}
				rows = append(rows, []string{status.Name, status.Command, state, status.Detail})
			}
			fmt.Fprint(out, renderTable([]string{"Tool", "Command", "Status", "Detail"}, rows, nil))
			fmt.Fprintln(out)

			if cleanOlder > 0 {
				result := staging.CleanStale(cmd.Context(), cfg.Paths.StagingDir, cleanOlder, logger)
				fmt.Fprintf(out, "Removed %d stale staging runs\n", len(result.Removed))
				for _, failure := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not remove %s: %v\n", failure.Path, failure.Error)
				}
			}

			dirs, err := staging.ListDirectories(cfg.Paths.StagingDir)
			if err != nil {
				return fmt.Errorf("list staging directories: %w", err)
			}
			if len(dirs) == 0 {
				fmt.Fprintf(out, "No leftover staging runs in %s\n", cfg.Paths.StagingDir)
			} else {
				var total int64
				runRows := make([][]string, 0, len(dirs))
				for _, dir := range dirs {
					total += dir.Size
					runRows = append(runRows, []string{dir.Name, humanize.Time(dir.ModTime), humanize.Bytes(uint64(dir.Size))})
				}
				fmt.Fprintf(out, "Staging directory: %s\n", cfg.Paths.StagingDir)
				fmt.Fprint(out, renderTable(
					[]string{"Run", "Modified", "Size"},
					runRows,
					[]columnAlignment{alignLeft, alignRight, alignRight},
				))
				fmt.Fprintf(out, "\nTotal: %d runs, %s\n", len(dirs), humanize.Bytes(uint64(total)))
			}

			return deps.Require(statuses)
		},
	}

	cmd.Flags().DurationVar(&cleanOlder, "clean-older-than", 0, "Remove staging runs older than this age (e.g. 24h)")
	return cmd
}
