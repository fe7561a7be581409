package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/enzocage/Notion-Mediator/internal/agent"
	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
	"github.com/enzocage/Notion-Mediator/internal/server"
)

const replPrompt = "> "

func newChatCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Send requests to the planner from the terminal",
		Long: `Send a request to the planner and print its answer.

With arguments, the arguments are joined into one request and the command
exits after the answer. Without arguments on a terminal, an interactive
session starts; type "exit" or press Ctrl-C to leave. When stdin is not a
terminal, every non-empty line is sent as its own request.`,
		Example: `  mediator chat "summarize page 1 into page 2"
  mediator chat --mode google
  echo "read doc 1" | mediator chat --mode google`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, args, mode)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Backend to work on: notion or google (default: DEFAULT_MODE)")
	cmd.Flags().Int("max-rounds", agent.MaxRounds, "Maximum planner rounds per request (1-30). Can also use MAX_ROUNDS env var.")

	return cmd
}

func runChat(cmd *cobra.Command, args []string, mode string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.close(shutdownCtx)
	}()

	if mode == "" {
		mode = a.cfg.DefaultMode
	}
	if _, err := a.resolver.Resolve(mode); err != nil {
		return err
	}

	planner, err := a.newAgent(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case len(args) > 0:
		return chatOnce(ctx, planner, out, strings.Join(args, " "), mode)
	case term.IsTerminal(int(os.Stdin.Fd())):
		return chatInteractive(ctx, planner, out, mode)
	default:
		return chatLines(ctx, planner, cmd.InOrStdin(), out, mode)
	}
}

// chatOnce runs one request under a fresh run ID and prints the answer.
func chatOnce(ctx context.Context, r server.Runner, w io.Writer, prompt, mode string) error {
	ctx = instrumentation.ContextWithRunID(ctx, uuid.NewString())
	result, err := r.Run(ctx, prompt, mode)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, result.Text)
	return err
}

// chatLines sends every non-empty line of in as a separate request.
func chatLines(ctx context.Context, r server.Runner, in io.Reader, w io.Writer, mode string) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := chatOnce(ctx, r, w, line, mode); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func chatInteractive(ctx context.Context, r server.Runner, w io.Writer, mode string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          w,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(w, "mediator %s (mode: %s). Type \"exit\" to quit.\n", version, mode)

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := chatOnce(ctx, r, w, line, mode); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
