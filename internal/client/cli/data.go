package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/notetake/internal/filex"
	"github.com/spf13/cobra"
)

// newDataCommand backs up and restores the whole local state as one JSON
// object of store keys.
func newDataCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Back up, restore or clear the local store",
	}

	var outPath string
	exp := &cobra.Command{
		Use:   "export",
		Short: "Write every stored key as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			snap, err := a.store.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				return writeJSON(a.out, snap)
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			if err := filex.WriteFileAtomic(outPath, data, 0o600); err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, "Wrote", outPath)
			return err
		},
	}
	exp.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the local store with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var snap map[string]json.RawMessage
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("read backup: %w", err)
			}
			if err := a.store.Restore(cmd.Context(), snap); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Imported %d keys\n", len(snap))
			return err
		},
	}

	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Delete all notes, tags and pending uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if !yes && !Confirm(a.in, "Delete all local data?", a.out) {
				return nil
			}
			if err := a.store.Reset(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "Store cleared")
			return err
		},
	}
	reset.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(exp, imp, reset)
	return cmd
}
