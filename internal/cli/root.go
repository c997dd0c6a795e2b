// Package cli defines the stackctl command-line interface for replaying card
// stack interactions outside the browser.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"askstream/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	DataPath string
}

// Execute builds the root command, runs it with args and writes results to out.
// Commands log through logger unless --log-level is set.
func Execute(args []string, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, slog.LevelInfo)
	}
	cmd := newRootCommand(&Options{}, logger)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	return cmd.Execute()
}

func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stackctl",
		Short:         "stackctl replays card stack interactions",
		Long:          "stackctl builds the Ask Stream card stack from a data file, applies clicks, drags and key presses, and prints the resulting layout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// An explicit --log-level replaces the caller's logger.
			if flag := cmd.Flag("log-level"); flag != nil && flag.Changed {
				level := logging.ParseLevel(flag.Value.String())
				logger = logging.NewLogger(cmd.ErrOrStderr(), level)
				logger.Debug("logger initialized", "level", level)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.DataPath, "data", "d", "", "Path to a JSON or YAML data file (embedded sample when empty)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRenderCommand(opts),
		newKeysCommand(),
	)
	return cmd
}

type loggerKey struct{}

// LoggerFromContext returns the logger stored by the root command.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return logging.NewLogger(os.Stderr, slog.LevelInfo)
}
