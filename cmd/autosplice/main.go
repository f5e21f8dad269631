package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/autosplice/autosplice/internal/cli"
	"github.com/autosplice/autosplice/pkg/console"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(ctx, err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

const (
	exitFailure     = 1
	exitInterrupted = 130 // standard shell convention for SIGINT
)

// exitCode maps a command failure to the process exit status. A delivered
// signal cancels ctx before the failing subprocess reports, so the context
// is checked alongside the error itself.
func exitCode(ctx context.Context, err error) int {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return exitInterrupted
	}
	return exitFailure
}

func run(ctx context.Context) error {
	var (
		verboseCount int
		quiet        bool
	)

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "increase verbosity (-v, -vv, -vvv)")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all non-error output")
	root.PersistentFlags().Bool("no-ansi", false, "disable ANSI color output")

	// Apply the output flags before the CLI's own PersistentPreRunE
	// attaches the logger to the command context.
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := console.FromCount(verboseCount)
		if quiet {
			level = console.Quiet
		}
		c.SetVerbosity(level)

		if noAnsi, _ := cmd.Flags().GetBool("no-ansi"); noAnsi {
			c.SetDecorated(false)
		}

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
