package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"supportdesk/internal/logging"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// chatCmd starts an interactive conversation
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive support chat",
	Long: `Starts a conversation with the support assistant. The chat keeps the
recent history as context for the model.

Type a number to pick one of the quick actions offered with the last reply.
Commands: /new, /clear, /end, /ticket, /quit.`,
	RunE: runChat,
}

// askCmd answers a single message
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer a single message and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		resp := a.agent.Handle(ctx, strings.Join(args, " "), newSession(a.agent).conv)
		fmt.Fprintln(cmd.OutOrStdout(), formatResponse(resp))
		return nil
	},
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	plain, _ := cmd.Flags().GetBool("plain")
	tui := !plain && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if tui {
		// Log lines on stderr would tear the full-screen view.
		quiet := cfg.Logging
		quiet.Quiet = true
		if err := logging.Initialize(quiet); err != nil {
			return err
		}
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	sess := newSession(a.agent)

	g, gctx := errgroup.WithContext(ctx)
	chatCtx, endChat := context.WithCancel(gctx)
	defer endChat()

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return serveMetrics(chatCtx, cfg.Metrics.Addr, a.registry)
		})
	}
	g.Go(func() error {
		defer endChat()
		if tui {
			return runTUI(chatCtx, sess)
		}
		return runPlainChat(chatCtx, cmd.InOrStdin(), cmd.OutOrStdout(), sess)
	})

	return g.Wait()
}

// runPlainChat reads one message per line until EOF, /quit or ctx ends.
func runPlainChat(ctx context.Context, in io.Reader, out io.Writer, sess *session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(out, "Support chat. Type /quit to leave.")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			ex := sess.submit(ctx, line)
			if ex.Quit {
				return nil
			}
			printExchange(out, ex)
		}
	}
}
