package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Fastcode/NUClear/tools/pkg/config"
	"github.com/Fastcode/NUClear/tools/pkg/tidy"
)

// newRootCmd builds the command tree. cobra keeps the context of the first execution on every
// command, so each run needs a fresh tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tool",
		Short: "Static analysis helpers for NUClear",
		Long: `This command bundles the tools used to run clang-tidy during the build.
This includes a cached clang-tidy launcher, a fixes merger and a compile_commands.json merger.`,
		// errors are printed by run
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newTidyCmd(),
		newTidyAllCmd(),
		newMergeFixesCmd(),
		newMergeCompileCommandsCmd(),
	)
	return rootCmd
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	verbose := cfg.LogLevel() == zerolog.DebugLevel
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, verbose)
	}

	var writer io.Writer = NewConsoleWriter(out, verbose)
	if cfg.Log.JSON {
		writer = out
	}

	return zerolog.New(writer).Level(cfg.LogLevel()).With().Timestamp().Logger()
}

// setup loads the configuration and attaches a logger to the command's context
func setup(cmd *cobra.Command) (*config.Config, context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return cfg, tidy.WithLogger(ctx, &logger), nil
}

// newInvocation applies the configured cache and fixes settings to a tidy invocation
func newInvocation(cfg *config.Config, inv *tidy.Invocation) *tidy.Invocation {
	inv.CacheEnv = cfg.Cache.EnvVar
	inv.CacheSubdir = cfg.Cache.Subdir
	inv.FixesFlag = cfg.Fixes.Flag

	// Validate() already rejected unparsable values
	extra, _ := cfg.ExtraArgs()
	inv.AddArgs(extra...)

	return inv
}

func isHelp(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

// Execute runs the root command and exits with the analysis tool's status if it failed
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *tidy.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	rootCmd.PrintErrln("Error:", err.Error())
	return 1
}
