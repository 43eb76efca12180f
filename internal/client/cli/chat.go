package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"github.com/spf13/cobra"
)

func newAskCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question in the current thread",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			return a.ask(cmd, strings.Join(args, " "))
		},
	}
}

func (a *App) ask(cmd *cobra.Command, question string) error {
	ctx, cancel := a.requestContext(cmd)
	defer cancel()

	ex, err := a.client.Ask(ctx, question)
	if err != nil {
		return explain(err)
	}
	printExchange(a.out, ex)
	return nil
}

func printExchange(w io.Writer, ex *pb.Exchange) {
	fmt.Fprintf(w, "[thread %d] %s\n", ex.ThreadID, ex.Answer)
}

func newChatCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat (type /help for commands)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			return a.repl(cmd)
		},
	}
}

// repl reads questions line by line until /exit or EOF. Failed questions
// are reported and the loop goes on.
func (a *App) repl(cmd *cobra.Command) error {
	fmt.Fprintln(a.out, "GophChat (type /help for commands)")

	for {
		fmt.Fprint(a.out, "you> ")
		line, err := a.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out)
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}

		switch line {
		case "/help":
			fmt.Fprintln(a.out, "Type a question, or: /threads, /exit")
		case "/exit", "/quit":
			fmt.Fprintln(a.out, "Bye!")
			return nil
		case "/threads":
			if err := a.listThreads(cmd, &pb.ListThreadsRequest{Limit: 5}, false); err != nil {
				fmt.Fprintln(a.out, "error:", err)
			}
		default:
			if err := a.ask(cmd, line); err != nil {
				fmt.Fprintln(a.out, "error:", err)
			}
		}
	}
}
