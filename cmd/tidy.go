package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Fastcode/NUClear/tools/pkg/tidy"
)

// newTidyCmd returns the cached clang-tidy launcher
func newTidyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tidy <output dir> <ignore file> <proxy> <tool> [tool args...]",
		Short: "Runs clang-tidy through a caching proxy and exports fixes to a stable file",
		Long: `Runs <proxy> <tool> --export-fixes=<output dir>/<hash>.yaml [tool args...].

The fixes file name is the SHA-256 of the tool arguments, so rerunning the same
analysis replaces the old fixes. If CTCACHE_DIR is unset, the cache lives in
<output dir>/cache. Translation units matching a pattern in <ignore file> are
skipped. The exit code is the one of the analysis.

Intended to be used as CMake's CXX_CLANG_TIDY launcher.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isHelp(args) {
				return cmd.Help()
			}

			cfg, ctx, err := setup(cmd)
			if err != nil {
				return err
			}

			inv, err := tidy.FromArgs(args)
			if err != nil {
				return err
			}

			code, err := newInvocation(cfg, inv).Run(ctx)
			if err != nil {
				return err
			}

			if code != 0 {
				return &tidy.ExitError{Code: code}
			}
			return nil
		},
	}
}
