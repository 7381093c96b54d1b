// Package cli wires the zephyrtools command tree.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matiasleandrokruk/zephyrtools/internal/infra/config"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/process"
)

// RootOptions holds global flags and the lazily built shared state.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"

	logger   *zap.Logger
	cfg      *config.Config
	executor process.Executor
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zephyrtools",
		Short: "Zephyr and Embedded Swift tools for coding agents",
		Long: `zephyrtools exposes West and Swift toolchain operations, plus a Swift
source generator, to coding agents over the Model Context Protocol.

Run "zephyrtools serve" to start the MCP server on stdio, or with --http to
serve streamable HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.logger != nil {
				return nil
			}
			logger, err := newLogger(opts.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewCallCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))
	return cmd
}

// newLogger writes JSON logs to stderr, keeping stdout free for the
// stdio MCP stream.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func (o *RootOptions) Logger() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

// Config loads configuration once per process.
func (o *RootOptions) Config() (config.Config, error) {
	if o.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "load configuration", err)
		}
		o.cfg = &cfg
	}
	return *o.cfg, nil
}

func (o *RootOptions) Executor(cfg config.Config) process.Executor {
	if o.executor == nil {
		o.executor = process.NewOSExecutor(cfg.CommandTimeout, o.Logger())
	}
	return o.executor
}
