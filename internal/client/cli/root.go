package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/notetake/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree over cfg. The App is opened once
// flags are parsed and closed after the command finished.
//
// Interrupts are only routed by Execute; a tree built here leaves Ctrl-C to
// the caller.
func NewRootCommand(cfg *config.Config, in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newRootCommand(cfg, newInterrupts(func() {}), in, out, errOut)
}

func newRootCommand(cfg *config.Config, intr *interrupts, in io.Reader, out, errOut io.Writer) *cobra.Command {
	var app *App
	getApp := func() *App { return app }

	root := &cobra.Command{
		Use:           "notetake",
		Short:         "Markdown notes with tags, images, export and chat",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := NewApp(cmd.Context(), cfg, in, out, errOut)
			if err != nil {
				return err
			}
			a.interrupts = intr
			app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	cfg.BindFlags(root)

	root.AddCommand(
		newNoteCommand(getApp),
		newTagCommand(getApp),
		newChatCommand(getApp),
		newDataCommand(getApp),
		newPingCommand(getApp),
	)
	return root
}

// Execute loads configuration, runs the command named by args and returns
// the process exit code. Ctrl-C cancels the command unless a REPL claimed
// it (see interrupts).
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	intr := newInterrupts(cancel)
	intr.watch(ctx)

	root := newRootCommand(cfg, intr, in, out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	return 0
}

func newPingCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the collaborator backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().api.Ping(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
}
