package cmd

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Fastcode/NUClear/tools/pkg/compdb"
)

func newMergeCompileCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge-compile-commands <output file> <input files...>",
		Short: "Merges several compile_commands.json files. Assumes that only absolute paths are used.",
		Long: `Merges several compile_commands.json files. Entries for the same source file
are replaced by the ones from later files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return eris.Errorf("Expected at least 2 arguments but got %d!", len(args))
			}

			entries, err := compdb.Merge(args[1:])
			if err != nil {
				return err
			}

			return compdb.Write(args[0], entries)
		},
	}
}
