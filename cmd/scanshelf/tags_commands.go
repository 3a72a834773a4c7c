package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scanshelf/internal/catalog"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Inspect and define tags",
	}

	tagsCmd.AddCommand(newTagsListCommand(ctx))
	tagsCmd.AddCommand(newTagsDefineCommand(ctx))

	return tagsCmd
}

func newTagsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tag definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), true, func(store *catalog.Store) error {
				tags, err := store.Tags(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(tags))
				for _, tag := range tags {
					rows = append(rows, []string{tag.Name, string(tag.Type), yesNo(tag.IsDerived()), tag.Description})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"Name", "Type", "Derived", "Description"},
					rows,
					nil,
				))
				return nil
			})
		},
	}
}

func newTagsDefineCommand(ctx *commandContext) *cobra.Command {
	var typeFlag string
	var descriptionFlag string

	cmd := &cobra.Command{
		Use:   "define <name>",
		Short: "Create a tag or update its type and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), false, func(store *catalog.Store) error {
				lock, err := catalog.AcquireLock(store.Path(), true)
				if err != nil {
					return err
				}
				defer func() { _ = lock.Release() }()

				var defined *catalog.Tag
				err = store.Update(cmd.Context(), func(tx *catalog.Tx) error {
					var defineErr error
					defined, defineErr = tx.DefineTag(cmd.Context(), catalog.Tag{
						Name:        args[0],
						Type:        catalog.TagType(strings.ToLower(strings.TrimSpace(typeFlag))),
						Description: strings.TrimSpace(descriptionFlag),
					})
					return defineErr
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Defined tag %s (%s)\n", defined.Name, defined.Type)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", string(catalog.TagText), "Tag type: str or bool")
	cmd.Flags().StringVar(&descriptionFlag, "description", "", "Human readable description")
	return cmd
}
