package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scanshelf/internal/catalog"
)

func newBooksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List books with their page counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), true, func(store *catalog.Store) error {
				books, err := store.Books(cmd.Context())
				if err != nil {
					return err
				}
				if len(books) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No books indexed; run `scanshelf reindex` first")
					return nil
				}
				total := 0
				rows := make([][]string, 0, len(books))
				for _, book := range books {
					rows = append(rows, []string{book.Name, strconv.Itoa(book.Pages)})
					total += book.Pages
				}
				out := cmd.OutOrStdout()
				fmt.Fprint(out, renderTable([]string{"Book", "Pages"}, rows, []columnAlignment{alignLeft, alignRight}))
				fmt.Fprintf(out, "\nTotal: %d books, %d pages\n", len(books), total)
				return nil
			})
		},
	}
}
