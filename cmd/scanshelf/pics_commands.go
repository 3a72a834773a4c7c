package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scanshelf/internal/catalog"
	"scanshelf/internal/services"
	"scanshelf/internal/tagging"
)

func newPicsCommand(ctx *commandContext) *cobra.Command {
	picsCmd := &cobra.Command{
		Use:   "pics",
		Short: "Browse pictures and edit their tags",
		Long: `Browse catalog pictures and edit their tag values.

A picture reference is either its filename or a prefix of its content hash
(at least six characters). Book, category and scanned values are rebuilt by
reindex and cannot be edited here.`,
	}

	picsCmd.AddCommand(newPicsListCommand(ctx))
	picsCmd.AddCommand(newPicsShowCommand(ctx))
	picsCmd.AddCommand(newPicsAddCommand(ctx))
	picsCmd.AddCommand(newPicsSetCommand(ctx))
	picsCmd.AddCommand(newPicsRemoveCommand(ctx))
	picsCmd.AddCommand(newPicsStepCommand(ctx, "next", 1))
	picsCmd.AddCommand(newPicsStepCommand(ctx, "prev", -1))

	return picsCmd
}

func newPicsListCommand(ctx *commandContext) *cobra.Command {
	var bookFlag string
	var invalidFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pictures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), true, func(store *catalog.Store) error {
				pics, err := store.Pictures(cmd.Context(), catalog.PictureFilter{Book: bookFlag, IncludeInvalid: invalidFlag})
				if err != nil {
					return err
				}
				if len(pics) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No pictures found")
					return nil
				}
				rows := make([][]string, 0, len(pics))
				for _, pic := range pics {
					rows = append(rows, []string{
						pic.Filename,
						pic.Book,
						pic.Category,
						strconv.Itoa(pic.Page),
						shortHash(pic.Hash),
						yesNo(pic.Valid),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"Filename", "Book", "Category", "Page", "Hash", "Valid"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bookFlag, "book", "", "Only list pictures of this book")
	cmd.Flags().BoolVar(&invalidFlag, "invalid", false, "Include pictures whose file disappeared")
	return cmd
}

func newPicsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show a picture and its tag values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), true, func(store *catalog.Store) error {
				session, err := tagging.Load(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				printSession(cmd, session)
				return nil
			})
		},
	}
}

func newPicsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <ref> <tag> <value>",
		Short: "Attach a tag value to a picture",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(cmd, ctx, args[0], func(s *tagging.Session) error {
				_, err := s.Add(args[1], args[2])
				return err
			})
		},
	}
}

func newPicsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <ref> <value-id> <value>",
		Short: "Replace a tag value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseValueID(args[1])
			if err != nil {
				return err
			}
			return editSession(cmd, ctx, args[0], func(s *tagging.Session) error {
				_, err := s.Set(id, args[2])
				return err
			})
		},
	}
}

func newPicsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref> <value-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a tag value",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseValueID(args[1])
			if err != nil {
				return err
			}
			return editSession(cmd, ctx, args[0], func(s *tagging.Session) error {
				return s.Remove(id)
			})
		},
	}
}

func newPicsStepCommand(ctx *commandContext, use string, delta int) *cobra.Command {
	var bookFlag string

	direction := "after"
	if delta < 0 {
		direction = "before"
	}
	cmd := &cobra.Command{
		Use:   use + " <ref>",
		Short: "Show the picture " + direction + " <ref>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), true, func(store *catalog.Store) error {
				current, err := store.FindPicture(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				nav, err := tagging.NewNavigator(cmd.Context(), store, bookFlag)
				if err != nil {
					return err
				}
				var pic catalog.Picture
				var ok bool
				if delta > 0 {
					pic, ok = nav.Next(current.ID)
				} else {
					pic, ok = nav.Prev(current.ID)
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No picture %s %s\n", direction, current.Filename)
					return nil
				}
				session, err := tagging.Load(cmd.Context(), store, pic.Filename)
				if err != nil {
					return err
				}
				printSession(cmd, session)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bookFlag, "book", "", "Stay within this book")
	return cmd
}

// editSession loads ref, applies edit and commits the result.
func editSession(cmd *cobra.Command, ctx *commandContext, ref string, edit func(*tagging.Session) error) error {
	return ctx.withCatalog(cmd.Context(), false, func(store *catalog.Store) error {
		session, err := tagging.Load(cmd.Context(), store, ref)
		if err != nil {
			return err
		}
		if err := edit(session); err != nil {
			return err
		}
		if err := session.Commit(cmd.Context()); err != nil {
			return err
		}
		printSession(cmd, session)
		return nil
	})
}

func printSession(cmd *cobra.Command, session *tagging.Session) {
	pic := session.Picture()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  page %d  %s\n", pic.Filename, pic.Page, pic.Hash)
	fmt.Fprintf(out, "Path: %s\n", pic.Path)
	if !pic.Valid {
		fmt.Fprintln(out, "File missing since the last reindex")
	}

	values := session.Values()
	if len(values) == 0 {
		fmt.Fprintln(out, "No tag values")
		return
	}
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{strconv.FormatInt(v.ID, 10), v.Tag, string(v.Type), v.Value})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Tag", "Type", "Value"},
		rows,
		[]columnAlignment{alignRight},
	))
}

func parseValueID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrValidation, "pics", "parse", fmt.Sprintf("value id %q is not a positive integer", raw), nil)
	}
	return id, nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
