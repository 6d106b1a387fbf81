package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teafis/ModelTea-stdlib/catalog"
	"github.com/teafis/ModelTea-stdlib/ffi"
	"github.com/teafis/ModelTea-stdlib/wasmhost"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	LogLevel string
	Format   string // "json" | "text"
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "mtea",
		Short:         "ModelTea block runtime",
		Long:          "Inspect the ModelTea block catalog, replay block scenarios and step blocks interactively.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return newExitError(exitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, validFormats))
			}
			logger, err := newLogger(opts.LogLevel, opts.Format, cmd.ErrOrStderr())
			if err != nil {
				return wrapExitError(exitCommandError, "invalid log level", err)
			}
			catalog.SetLogger(logger)
			ffi.SetLogger(logger)
			wasmhost.SetLogger(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newWITCommand(opts))
	cmd.AddCommand(newTUICommand(opts))

	return cmd
}

// newLogger builds a console logger for text output and a JSON logger for
// json output, both writing to w.
func newLogger(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}
