package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/client/chat"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/spf13/cobra"
)

func newChatCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask questions about your notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			tick := a.config.RevealTick
			tty := a.tty()
			if !tty {
				// piped output gets the whole reply at once
				tick = 0
			}
			s := chat.NewSession(a.api, a.notes, tick, a.logger)
			return runChatREPL(cmd.Context(), s, a.interrupts, a.in, a.out)
		},
	}
}

// chatter is the part of chat.Session the REPL drives.
type chatter interface {
	Send(ctx context.Context, text string, sink func(partial string)) (<-chan struct{}, error)
	Stop()
}

// interruptClaimer hands out Ctrl-C while a reply is being shown.
type interruptClaimer interface {
	Claim() (<-chan struct{}, func())
}

// runChatREPL reads one question per line and prints each reply as it is
// revealed. An interrupt while a reply is pending or showing stops the
// reveal and returns to the prompt; the request itself is never cancelled.
// It returns on EOF, "exit" or "quit", or when ctx is cancelled.
func runChatREPL(ctx context.Context, s chatter, intr interruptClaimer, in *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Ask about your notes (type 'exit' to leave)")
	for {
		fmt.Fprint(out, "you> ")
		line, err := in.ReadString('\n')
		text := strings.TrimSpace(line)
		if err != nil && text == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch text {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		stop, release := intr.Claim()
		printed := 0
		fmt.Fprint(out, "bot> ")
		done, sendErr := s.Send(context.WithoutCancel(ctx), text, func(partial string) {
			fmt.Fprint(out, partial[printed:])
			printed = len(partial)
		})
		if sendErr != nil {
			release()
			if errors.Is(sendErr, common.ErrBusy) {
				fmt.Fprintln(out, "(still answering)")
				continue
			}
			fmt.Fprintln(out, "Error:", sendErr)
			continue
		}

		select {
		case <-done:
		case <-stop:
			s.Stop()
			<-done
			fmt.Fprint(out, " (stopped)")
		case <-ctx.Done():
			s.Stop()
			<-done
			release()
			fmt.Fprintln(out)
			return nil
		}
		release()
		fmt.Fprintln(out)

		if err != nil {
			return nil
		}
	}
}
