package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTagCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		Aliases: []string{"tags", "t"},
		Short:   "Manage the tag registry",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			all, err := a.tags.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, all)
			}
			return printTags(a.out, all)
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	add := &cobra.Command{
		Use:   "add <label>",
		Short: "Create a tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			tag, err := a.tags.New(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, tag.ID)
			return err
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <label>",
		Short: "Change a tag's label",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().tags.Update(cmd.Context(), args[0], strings.Join(args[1:], " "))
		},
	}

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a tag; notes keep the dangling id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().tags.Remove(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, add, rename, rm)
	return cmd
}
