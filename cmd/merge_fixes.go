package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Fastcode/NUClear/tools/pkg"
	"github.com/Fastcode/NUClear/tools/pkg/fixes"
	"github.com/Fastcode/NUClear/tools/pkg/tidy"
)

func newMergeFixesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge-fixes <output file> <fixes dirs or files...>",
		Short: "Merges the fixes exported by several clang-tidy runs into a single file for clang-apply-replacements",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return eris.Errorf("Expected at least 2 arguments but got %d!", len(args))
			}

			_, ctx, err := setup(cmd)
			if err != nil {
				return err
			}

			files, err := fixes.Collect(args[1:])
			if err != nil {
				return err
			}

			outPath, err := filepath.Abs(args[0])
			if err != nil {
				return eris.Wrapf(err, "failed to resolve %s", args[0])
			}

			pkg.PrintTask(fmt.Sprintf("Reading %d fixes files", len(files)))
			docs := make([]*fixes.Document, 0, len(files))
			for _, fpath := range files {
				absPath, err := filepath.Abs(fpath)
				if err == nil && absPath == outPath {
					// the output of a previous merge might live in the same folder
					continue
				}

				doc, err := fixes.Load(fpath)
				if err != nil {
					return err
				}

				if doc == nil {
					tidy.Log(ctx).Debug().Str("path", fpath).Msgf("Skipping empty %s", fpath)
					continue
				}
				docs = append(docs, doc)
			}

			merged := fixes.Merge(docs)
			pkg.PrintSubtask(fmt.Sprintf("%d diagnostics", len(merged.Diagnostics)))

			return fixes.Write(args[0], merged)
		},
	}
}
