package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/stepsolver/internal/app"
	"github.com/specialistvlad/stepsolver/internal/builtins"
	"github.com/specialistvlad/stepsolver/internal/loader"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure    = 1
	ExitUsage      = 2
	ExitUnsolvable = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	logLevel  string
	logFormat string
	output    string
	strict    bool
}

type action func(a *app.App, ctx context.Context) error

// NewRootCommand builds the command tree. System files are read from fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "stepsolver [flags] PATH...",
		Short: "Order and solve systems of equations",
		Long: `stepsolver reads a system of equations and seed parameters, orders the
equations so that every variable is computed before it is used, and evaluates
them.

Each PATH is a .hcl, .toml, .yaml or .yml file, or a directory searched
recursively for such files. Running without a subcommand solves the system.

Examples:
  stepsolver system.hcl               # Solve and print every variable
  stepsolver order ./systems          # Print the evaluation order only
  stepsolver validate -o json a.toml  # Check the system without solving it`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, fs, opts, args, (*app.App).Run)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Logging level: debug, info, warn or error.")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log output format: text or json.")
	flags.StringVarP(&opts.output, "output", "o", app.OutputText, "Result format: text, json, yaml or toml.")
	flags.BoolVar(&opts.strict, "strict", false, "Treat validation warnings as errors.")

	root.AddCommand(
		&cobra.Command{
			Use:   "solve PATH...",
			Short: "Order and evaluate the system, printing every variable",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return execute(cmd, fs, opts, args, (*app.App).Run)
			},
		},
		&cobra.Command{
			Use:   "order PATH...",
			Short: "Print the evaluation order without evaluating",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return execute(cmd, fs, opts, args, (*app.App).Plan)
			},
		},
		&cobra.Command{
			Use:   "validate PATH...",
			Short: "Check syntax, function calls and variable producers",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return execute(cmd, fs, opts, args, (*app.App).Validate)
			},
		},
		&cobra.Command{
			Use:   "functions",
			Short: "List the built-in functions as name/arity",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return listFunctions(cmd.OutOrStdout())
			},
		},
	)

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})
	return root
}

func execute(cmd *cobra.Command, fs afero.Fs, opts *options, paths []string, run action) error {
	if len(paths) == 0 {
		return cmd.Help()
	}

	cfg, err := app.NewConfig(app.Config{
		SystemPaths:  paths,
		LogFormat:    opts.logFormat,
		LogLevel:     opts.logLevel,
		OutputFormat: opts.output,
		Strict:       opts.strict,
	})
	if err != nil {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	ctx := cmd.Context()
	a, err := app.NewApp(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, loader.New(fs))
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}

	if err := run(a, ctx); err != nil {
		var unsolvable *app.UnsolvableError
		if errors.As(err, &unsolvable) {
			return &ExitError{Code: ExitUnsolvable, Message: err.Error()}
		}
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	return nil
}

func listFunctions(w io.Writer) error {
	engine := builtins.NewEngine()
	for _, name := range engine.Functions() {
		params, variadic, _ := engine.Arity(name)
		suffix := ""
		if variadic {
			suffix = "+"
		}
		if _, err := fmt.Fprintf(w, "%s/%d%s\n", name, params, suffix); err != nil {
			return &ExitError{Code: ExitFailure, Message: err.Error()}
		}
	}
	return nil
}

// Execute runs the command line args. Every returned error is an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, fs afero.Fs) error {
	root := NewRootCommand(fs)
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects before a command runs is a usage problem.
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}
