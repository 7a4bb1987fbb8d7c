package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Fastcode/NUClear/tools/pkg"
	"github.com/Fastcode/NUClear/tools/pkg/compdb"
	"github.com/Fastcode/NUClear/tools/pkg/tidy"
)

func newTidyAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tidy-all <compile_commands.json> <output dir> <ignore file> <proxy> <tool> [tool args...]",
		Short: "Runs the tidy command for every translation unit in a compilation database",
		Long: `Runs the tidy command once per entry of the passed compilation database.

If the database is called compile_commands.json, its directory is passed to the
tool with -p. Otherwise the compiler flags are passed after --. The exit code is
the first non-zero exit code of the analysis runs.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isHelp(args) {
				return cmd.Help()
			}

			if len(args) < 5 {
				return eris.Errorf("Expected at least 5 arguments but got %d!", len(args))
			}

			cfg, ctx, err := setup(cmd)
			if err != nil {
				return err
			}

			dbPath := args[0]
			entries, err := compdb.Load(dbPath)
			if err != nil {
				return err
			}

			pkg.PrintTask(fmt.Sprintf("Analysing %d translation units", len(entries)))
			inline := filepath.Base(dbPath) != "compile_commands.json"
			bar := getProgressBar(len(entries), "tidy")

			failures := 0
			firstCode := 0
			for _, entry := range entries {
				if err = ctx.Err(); err != nil {
					return err
				}

				toolArgs := append([]string{}, args[5:]...)
				if inline {
					flags, err := entry.CompilerFlags()
					if err != nil {
						return err
					}

					toolArgs = append(toolArgs, entry.SourcePath(), "--")
					toolArgs = append(toolArgs, flags...)
				} else {
					toolArgs = append(toolArgs, "-p", filepath.Dir(dbPath), entry.SourcePath())
				}

				inv := newInvocation(cfg, tidy.New(args[1], args[2], args[3], args[4], toolArgs))
				code, err := inv.Run(ctx)
				if err != nil {
					return err
				}

				if code != 0 {
					failures++
					if firstCode == 0 {
						firstCode = code
					}
					tidy.Log(ctx).Warn().Str("path", entry.SourcePath()).Int("code", code).Msgf("Analysis of %s failed", entry.SourcePath())
				}

				if err := bar.Add(1); err != nil {
					tidy.Log(ctx).Debug().Err(err).Msg("Failed to update progress bar")
				}
			}
			if err := bar.Finish(); err != nil {
				tidy.Log(ctx).Debug().Err(err).Msg("Failed to finish progress bar")
			}

			if failures > 0 {
				pkg.PrintError(fmt.Sprintf("%d of %d translation units failed", failures, len(entries)))
				return &tidy.ExitError{Code: firstCode}
			}

			pkg.PrintTask("Done")
			return nil
		},
	}
}

func getProgressBar(length int, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.NewOptions(length,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(pkg.Output),
		progressbar.OptionShowCount(),
	)
}
